package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-estoque/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-estoque/internal/domain/transaction"
	"github.com/hugohenrick/erp-estoque/internal/service/ledger"
)

// TransactionController expõe o livro de transações e as estatísticas
type TransactionController struct {
	ledger *ledger.Service
}

// NewTransactionController cria uma nova instância de TransactionController
func NewTransactionController(ledgerSvc *ledger.Service) *TransactionController {
	return &TransactionController{ledger: ledgerSvc}
}

// List lista as transações visíveis, mais recentes primeiro
// @Summary Lista transações
// @Tags transactions
// @Produce json
// @Security Bearer
// @Param branch_id query string false "Filial"
// @Param item_id query string false "Item"
// @Param user_id query string false "Usuário"
// @Param transaction_type query string false "Tipo"
// @Param from query string false "Início (RFC3339)"
// @Param to query string false "Fim (RFC3339)"
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {object} dto.TransactionListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /transactions [get]
func (c *TransactionController) List(ctx *gin.Context) {
	from, err := parseTime(ctx.Query("from"))
	if err != nil {
		badRequest(ctx, err)
		return
	}
	to, err := parseTime(ctx.Query("to"))
	if err != nil {
		badRequest(ctx, err)
		return
	}

	p := pagination(ctx)
	list, total, err := c.ledger.ListTransactions(ctx.Request.Context(), currentScope(ctx), ledger.TransactionQuery{
		BranchID: ctx.Query("branch_id"),
		ItemID:   ctx.Query("item_id"),
		UserID:   ctx.Query("user_id"),
		Type:     transaction.Type(ctx.Query("transaction_type")),
		From:     from,
		To:       to,
		Limit:    p.PageSize,
		Offset:   p.Offset(),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionListResponse(list, total, p))
}

// GetByID retorna o comprovante de uma transação
// @Summary Comprovante de transação
// @Tags transactions
// @Produce json
// @Security Bearer
// @Param id path string true "ID da transação"
// @Success 200 {object} dto.ReceiptResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /transactions/{id} [get]
func (c *TransactionController) GetByID(ctx *gin.Context) {
	r, err := c.ledger.GetTransaction(ctx.Request.Context(), currentScope(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToReceiptResponse(r))
}

// Statistics agrega a movimentação por filial no período
// @Summary Estatísticas por filial
// @Tags transactions
// @Produce json
// @Security Bearer
// @Param period query string false "yesterday, month, year ou all"
// @Param company_id query string false "Empresa"
// @Success 200 {object} ledger.Statistics
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /statistics/branches [get]
func (c *TransactionController) Statistics(ctx *gin.Context) {
	stats, err := c.ledger.BranchStatistics(ctx.Request.Context(), currentScope(ctx), ctx.Query("period"), ctx.Query("company_id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

func parseTime(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
