package dto

import (
	"github.com/hugohenrick/erp-estoque/internal/domain/transaction"
	"github.com/hugohenrick/erp-estoque/internal/service/ledger"
)

// TransactionListResponse representa a resposta de listagem do livro
type TransactionListResponse struct {
	Transactions []*transaction.Transaction `json:"transactions"`
	PageInfo
}

// ReceiptResponse é o comprovante de uma transação
type ReceiptResponse struct {
	Transaction *transaction.Transaction `json:"transaction"`
	Item        *ItemResponse            `json:"item,omitempty"`
	BranchName  string                   `json:"branch_name"`
	CompanyName string                   `json:"company_name"`
	UserName    string                   `json:"user_name"`
}

// ToTransactionListResponse converte uma página do livro
func ToTransactionListResponse(list []*transaction.Transaction, total int, p PaginationParams) TransactionListResponse {
	if list == nil {
		list = []*transaction.Transaction{}
	}
	return TransactionListResponse{Transactions: list, PageInfo: NewPageInfo(total, p)}
}

// ToReceiptResponse converte o comprovante do serviço
func ToReceiptResponse(r *ledger.Receipt) ReceiptResponse {
	out := ReceiptResponse{
		Transaction: r.Transaction,
		UserName:    r.UserName,
	}
	if r.Item != nil {
		it := ToItemResponse(r.Item)
		out.Item = &it
	}
	if r.Branch != nil {
		out.BranchName = r.Branch.Name
	}
	if r.Company != nil {
		out.CompanyName = r.Company.Name
	}
	return out
}
