package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-estoque/internal/domain/access"
	"github.com/hugohenrick/erp-estoque/internal/domain/branch"
	"github.com/hugohenrick/erp-estoque/internal/domain/category"
	"github.com/hugohenrick/erp-estoque/internal/domain/item"
	"github.com/hugohenrick/erp-estoque/internal/domain/store"
	"github.com/hugohenrick/erp-estoque/internal/domain/transaction"
	"github.com/hugohenrick/erp-estoque/pkg/apperror"
)

// CreateItemInput são os dados de cadastro de um item
type CreateItemInput struct {
	BranchID      string
	Name          string
	Description   string
	StockQuantity int
	MinimumStock  int
	CategoryID    string
	BarcodeNumber string
}

// CreateItem cadastra o item e registra a transação CREATE. O código do item
// é gerado com a linha da filial travada, a partir da contagem de criações
// já registradas no livro.
func (s *Service) CreateItem(ctx context.Context, scope access.Scope, in CreateItemInput) (*Result, error) {
	const op = "create_item"
	start := time.Now()
	defer func() { s.metrics.Observe(op, time.Since(start)) }()

	var res Result
	err := s.store.WithTx(ctx, func(tx store.Repositories) error {
		b, err := tx.Branches().FindByIDForUpdate(ctx, in.BranchID)
		if err != nil {
			return err
		}
		if !scope.CanAccessBranch(b.CompanyID, b.ID) {
			return apperror.ErrPermissionDenied.WithDetail("branch_id", in.BranchID)
		}
		if !b.IsActive {
			return branch.ErrBranchNotActive.WithDetail("branch_id", b.ID)
		}
		if err := checkCategory(ctx, tx, in.CategoryID, b); err != nil {
			return err
		}

		it, err := item.NewItem(b.ID, in.Name, in.StockQuantity, in.MinimumStock, scope.UserID())
		if err != nil {
			return err
		}
		it.Description = in.Description
		it.CategoryID = in.CategoryID
		it.BarcodeNumber = strings.TrimSpace(in.BarcodeNumber)

		created, err := tx.Transactions().Count(ctx, transaction.Filter{
			BranchIDs: []string{b.ID},
			Type:      transaction.TypeCreate,
		})
		if err != nil {
			return err
		}
		it.Code = item.GenerateCode(b.Name, b.ID, created+1, s.now())

		if err := tx.Items().Create(ctx, it); err != nil {
			return err
		}

		t, err := s.record(ctx, tx, it, scope.UserID(), transaction.Entry{
			Type:     transaction.TypeCreate,
			Quantity: it.StockQuantity,
			Notes:    "Item cadastrado",
		}, 0)
		if err != nil {
			return err
		}

		res = Result{Item: it, Transaction: t}
		return nil
	})
	if err != nil {
		return nil, s.fail(op, err, "branch_id", in.BranchID, "user_id", scope.UserID())
	}

	s.metrics.Recorded(string(transaction.TypeCreate), res.Transaction.Quantity)
	s.log.Info("item cadastrado", "item_id", res.Item.ID, "code", res.Item.Code, "branch_id", res.Item.BranchID)
	return &res, nil
}

// UpdateItemInput traz apenas os campos a alterar
type UpdateItemInput struct {
	Name          *string
	Description   *string
	CategoryID    *string
	MinimumStock  *int
	BarcodeNumber *string
	StockQuantity *int
	Notes         string
}

// UpdateItem aplica uma edição administrativa e registra uma transação UPDATE.
// Alterar o estoque atual exige poder de gestão da filial; o estoque
// original nunca muda por aqui.
func (s *Service) UpdateItem(ctx context.Context, scope access.Scope, itemID string, in UpdateItemInput) (*Result, error) {
	req := requireAccess
	if in.StockQuantity != nil {
		req = requireManage
	}

	var cat *category.Category
	if in.CategoryID != nil && *in.CategoryID != "" {
		c, err := s.store.Categories().FindByID(ctx, *in.CategoryID)
		if err != nil {
			return nil, s.fail("update_item", err, "item_id", itemID, "category_id", *in.CategoryID)
		}
		cat = c
	}

	return s.mutate(ctx, scope, "update_item", itemID, req, func(it *item.Item, b *branch.Branch) (transaction.Entry, error) {
		var changes []string

		if in.Name != nil || in.Description != nil {
			name, description := it.Name, it.Description
			if in.Name != nil {
				name = *in.Name
			}
			if in.Description != nil {
				description = *in.Description
			}
			if err := it.Rename(name, description); err != nil {
				return transaction.Entry{}, err
			}
			changes = append(changes, "dados cadastrais")
		}

		if in.CategoryID != nil {
			if cat != nil && !cat.AppliesTo(b.CompanyID, b.ID) {
				return transaction.Entry{}, category.ErrScopeMismatch.WithDetail("category_id", cat.ID)
			}
			it.CategoryID = *in.CategoryID
			changes = append(changes, "categoria")
		}

		if in.MinimumStock != nil {
			if err := it.SetMinimumStock(*in.MinimumStock); err != nil {
				return transaction.Entry{}, err
			}
			changes = append(changes, "estoque mínimo")
		}

		if in.BarcodeNumber != nil {
			it.BarcodeNumber = strings.TrimSpace(*in.BarcodeNumber)
			changes = append(changes, "código de barras")
		}

		quantity := 0
		if in.StockQuantity != nil {
			previous := it.StockQuantity
			if err := it.SetStockQuantity(*in.StockQuantity); err != nil {
				return transaction.Entry{}, err
			}
			quantity = abs(it.StockQuantity - previous)
			changes = append(changes, fmt.Sprintf("estoque de %d para %d", previous, it.StockQuantity))
		}

		return transaction.Entry{
			Type:     transaction.TypeUpdate,
			Quantity: quantity,
			Notes:    defaultNote(in.Notes, "Item atualizado: "+strings.Join(changes, ", ")),
		}, nil
	})
}

// DeleteItem registra a transação DELETE e só então remove o item.
// As transações do item permanecem no livro.
func (s *Service) DeleteItem(ctx context.Context, scope access.Scope, itemID, notes string) (*transaction.Transaction, error) {
	const op = "delete_item"

	var t *transaction.Transaction
	err := s.store.WithTx(ctx, func(tx store.Repositories) error {
		it, err := tx.Items().FindByIDForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		b, err := tx.Branches().FindByID(ctx, it.BranchID)
		if err != nil {
			return err
		}
		if !scope.CanManageBranch(b.CompanyID, b.ID) {
			return apperror.ErrPermissionDenied.WithDetail("item_id", itemID)
		}

		t, err = s.record(ctx, tx, it, scope.UserID(), transaction.Entry{
			Type:     transaction.TypeDelete,
			Quantity: it.StockQuantity,
			Notes:    defaultNote(notes, "Item excluído"),
		}, it.StockQuantity)
		if err != nil {
			return err
		}

		return tx.Items().Delete(ctx, it.ID)
	})
	if err != nil {
		return nil, s.fail(op, err, "item_id", itemID, "user_id", scope.UserID())
	}

	s.metrics.Recorded(string(transaction.TypeDelete), t.Quantity)
	s.log.Info("item excluído", "item_id", itemID, "reference", t.ReferenceNumber, "user_id", scope.UserID())
	return t, nil
}

// GetItem busca um item visível ao escopo. Item de filial fora do escopo
// responde como inexistente.
func (s *Service) GetItem(ctx context.Context, scope access.Scope, itemID string) (*item.Item, error) {
	it, err := s.store.Items().FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, scope, it.BranchID, "item_id", itemID); err != nil {
		if apperror.KindOf(err) == apperror.KindPermission {
			return nil, item.ErrItemNotFound.WithDetail("item_id", itemID)
		}
		return nil, err
	}
	return it, nil
}

// ItemQuery filtra a listagem de itens
type ItemQuery struct {
	BranchID   string
	CategoryID string
	Search     string
	Limit      int
	Offset     int
}

// ListItems lista os itens visíveis ao escopo e o total sem paginação
func (s *Service) ListItems(ctx context.Context, scope access.Scope, q ItemQuery) ([]*item.Item, int, error) {
	ids, empty, err := s.branchFilter(ctx, scope, q.BranchID)
	if err != nil || empty {
		return nil, 0, err
	}

	f := item.Filter{
		BranchIDs:  ids,
		CategoryID: q.CategoryID,
		Search:     q.Search,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}

	items, err := s.store.Items().List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.Items().Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ScanItem resolve o valor lido de um QR ("item:<uuid>" ou o UUID puro) ou
// de um código de barras. Códigos de barras são únicos por filial, então mais
// de um item visível pode corresponder. Itens fora do escopo não aparecem.
func (s *Service) ScanItem(ctx context.Context, scope access.Scope, value string) ([]*item.Item, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, item.ErrInvalidValue.WithDetail("code", value)
	}

	if id, ok := item.ParseQRPayload(value); ok {
		it, err := s.GetItem(ctx, scope, id)
		if err != nil {
			return nil, err
		}
		return []*item.Item{it}, nil
	}

	if id, err := uuid.Parse(value); err == nil {
		it, err := s.GetItem(ctx, scope, id.String())
		if err == nil {
			return []*item.Item{it}, nil
		}
		if apperror.KindOf(err) != apperror.KindNotFound {
			return nil, err
		}
	}

	found, err := s.store.Items().FindByScanValue(ctx, value)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, item.ErrItemNotFound.WithDetail("code", value)
	}

	visible := make([]*item.Item, 0, len(found))
	for _, it := range found {
		if err := s.authorizeRead(ctx, scope, it.BranchID, "code", value); err == nil {
			visible = append(visible, it)
		} else if apperror.KindOf(err) != apperror.KindPermission {
			return nil, err
		}
	}
	if len(visible) == 0 {
		return nil, item.ErrItemNotFound.WithDetail("code", value)
	}
	return visible, nil
}

func (s *Service) authorizeRead(ctx context.Context, scope access.Scope, branchID, field string, value any) error {
	if scope.IsUnrestricted() {
		return nil
	}
	b, err := s.store.Branches().FindByID(ctx, branchID)
	if err != nil {
		return err
	}
	if !scope.CanAccessBranch(b.CompanyID, b.ID) {
		return apperror.ErrPermissionDenied.WithDetail(field, value)
	}
	return nil
}

// checkCategory garante que a categoria existe e vale para a filial
func checkCategory(ctx context.Context, tx store.Repositories, categoryID string, b *branch.Branch) error {
	if categoryID == "" {
		return nil
	}
	c, err := tx.Categories().FindByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if !c.AppliesTo(b.CompanyID, b.ID) {
		return category.ErrScopeMismatch.WithDetail("category_id", categoryID)
	}
	return nil
}
