package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-estoque/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-estoque/internal/domain/access"
	"github.com/hugohenrick/erp-estoque/internal/domain/item"
	"github.com/hugohenrick/erp-estoque/internal/service/ledger"
)

// ItemController gerencia itens e movimentações de estoque
type ItemController struct {
	ledger *ledger.Service
}

// NewItemController cria uma nova instância de ItemController
func NewItemController(ledgerSvc *ledger.Service) *ItemController {
	return &ItemController{ledger: ledgerSvc}
}

// Create cadastra um item
// @Summary Cadastra um item
// @Description Cadastra o item na filial e registra a transação CREATE
// @Tags items
// @Accept json
// @Produce json
// @Security Bearer
// @Param item body dto.ItemRequest true "Dados do item"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /items [post]
func (c *ItemController) Create(ctx *gin.Context) {
	var request dto.ItemRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	res, err := c.ledger.CreateItem(ctx.Request.Context(), currentScope(ctx), request.ToInput())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToMovementResponse(res))
}

// List lista os itens visíveis
// @Summary Lista itens
// @Tags items
// @Produce json
// @Security Bearer
// @Param branch_id query string false "Filial"
// @Param category_id query string false "Categoria"
// @Param search query string false "Busca por nome, código ou código de barras"
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {object} dto.ItemListResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /items [get]
func (c *ItemController) List(ctx *gin.Context) {
	p := pagination(ctx)

	items, total, err := c.ledger.ListItems(ctx.Request.Context(), currentScope(ctx), ledger.ItemQuery{
		BranchID:   ctx.Query("branch_id"),
		CategoryID: ctx.Query("category_id"),
		Search:     ctx.Query("search"),
		Limit:      p.PageSize,
		Offset:     p.Offset(),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToItemListResponse(items, total, p))
}

// GetByID busca um item pelo ID
// @Summary Busca um item
// @Tags items
// @Produce json
// @Security Bearer
// @Param id path string true "ID do item"
// @Success 200 {object} dto.ItemResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /items/{id} [get]
func (c *ItemController) GetByID(ctx *gin.Context) {
	it, err := c.ledger.GetItem(ctx.Request.Context(), currentScope(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToItemResponse(it))
}

// Scan resolve o conteúdo lido de um QR ou código de barras
// @Summary Busca item por QR ou código de barras
// @Tags items
// @Produce json
// @Security Bearer
// @Param code query string true "Conteúdo lido"
// @Success 200 {array} dto.ItemResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /items/scan [get]
func (c *ItemController) Scan(ctx *gin.Context) {
	items, err := c.ledger.ScanItem(ctx.Request.Context(), currentScope(ctx), ctx.Query("code"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	out := make([]dto.ItemResponse, len(items))
	for i, it := range items {
		out[i] = dto.ToItemResponse(it)
	}
	ctx.JSON(http.StatusOK, out)
}

// Update aplica uma edição administrativa
// @Summary Atualiza um item
// @Description Alterar o estoque atual exige gestão da filial e respeita o estoque original
// @Tags items
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID do item"
// @Param item body dto.ItemUpdateRequest true "Campos a alterar"
// @Success 200 {object} dto.MovementResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /items/{id} [patch]
func (c *ItemController) Update(ctx *gin.Context) {
	var request dto.ItemUpdateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	res, err := c.ledger.UpdateItem(ctx.Request.Context(), currentScope(ctx), ctx.Param("id"), request.ToInput())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMovementResponse(res))
}

// Delete remove um item mantendo suas transações
// @Summary Remove um item
// @Tags items
// @Produce json
// @Security Bearer
// @Param id path string true "ID do item"
// @Param notes query string false "Observações"
// @Success 200 {object} transaction.Transaction
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /items/{id} [delete]
func (c *ItemController) Delete(ctx *gin.Context) {
	t, err := c.ledger.DeleteItem(ctx.Request.Context(), currentScope(ctx), ctx.Param("id"), ctx.Query("notes"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, t)
}

// Withdraw retira unidades do item
// @Summary Retira unidades
// @Tags movements
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID do item"
// @Param Idempotency-Key header string false "Chave de idempotência"
// @Param movement body dto.MovementRequest true "Quantidade e observações"
// @Success 200 {object} dto.MovementResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /items/{id}/withdraw [post]
func (c *ItemController) Withdraw(ctx *gin.Context) {
	c.move(ctx, c.ledger.Withdraw)
}

// Return devolve unidades ao item
// @Summary Devolve unidades
// @Tags movements
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID do item"
// @Param Idempotency-Key header string false "Chave de idempotência"
// @Param movement body dto.MovementRequest true "Quantidade e observações"
// @Success 200 {object} dto.MovementResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /items/{id}/return [post]
func (c *ItemController) Return(ctx *gin.Context) {
	c.move(ctx, c.ledger.Return)
}

// AddStock incorpora unidades ao item
// @Summary Entrada de estoque
// @Tags movements
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID do item"
// @Param Idempotency-Key header string false "Chave de idempotência"
// @Param movement body dto.MovementRequest true "Quantidade e observações"
// @Success 200 {object} dto.MovementResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /items/{id}/add-stock [post]
func (c *ItemController) AddStock(ctx *gin.Context) {
	c.move(ctx, c.ledger.AddStock)
}

// RemoveStock baixa unidades do item
// @Summary Baixa de estoque
// @Tags movements
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID do item"
// @Param Idempotency-Key header string false "Chave de idempotência"
// @Param movement body dto.MovementRequest true "Quantidade e observações"
// @Success 200 {object} dto.MovementResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /items/{id}/remove-stock [post]
func (c *ItemController) RemoveStock(ctx *gin.Context) {
	c.move(ctx, c.ledger.RemoveStock)
}

// UpdateOriginalStock redefine o estoque original
// @Summary Redefine o estoque original
// @Tags items
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID do item"
// @Param stock body dto.OriginalStockRequest true "Novo estoque original"
// @Success 200 {object} dto.MovementResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /items/{id}/original-stock [put]
func (c *ItemController) UpdateOriginalStock(ctx *gin.Context) {
	var request dto.OriginalStockRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	res, err := c.ledger.UpdateOriginalStock(ctx.Request.Context(), currentScope(ctx), ctx.Param("id"), request.OriginalStockQuantity)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMovementResponse(res))
}

// SetHold aplica um bloqueio administrativo
// @Summary Bloqueia o item
// @Description MAINTENANCE ou RETIRED
// @Tags items
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID do item"
// @Param hold body dto.HoldRequest true "Bloqueio"
// @Success 200 {object} dto.MovementResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /items/{id}/hold [put]
func (c *ItemController) SetHold(ctx *gin.Context) {
	var request dto.HoldRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	res, err := c.ledger.SetHold(ctx.Request.Context(), currentScope(ctx), ctx.Param("id"), item.Hold(request.Hold), request.Notes)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMovementResponse(res))
}

// ClearHold remove o bloqueio administrativo
// @Summary Libera o item
// @Tags items
// @Produce json
// @Security Bearer
// @Param id path string true "ID do item"
// @Param notes query string false "Observações"
// @Success 200 {object} dto.MovementResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /items/{id}/hold [delete]
func (c *ItemController) ClearHold(ctx *gin.Context) {
	res, err := c.ledger.ClearHold(ctx.Request.Context(), currentScope(ctx), ctx.Param("id"), ctx.Query("notes"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMovementResponse(res))
}

type movementFunc func(ctx context.Context, scope access.Scope, m ledger.Movement) (*ledger.Result, error)

func (c *ItemController) move(ctx *gin.Context, fn movementFunc) {
	var request dto.MovementRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	res, err := fn(ctx.Request.Context(), currentScope(ctx), ledger.Movement{
		ItemID:   ctx.Param("id"),
		Quantity: request.Quantity,
		Notes:    request.Notes,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMovementResponse(res))
}
