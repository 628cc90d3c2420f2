package ledger

import (
	"context"
	"sort"

	"github.com/hugohenrick/erp-estoque/internal/domain/access"
	"github.com/hugohenrick/erp-estoque/internal/domain/branch"
	"github.com/hugohenrick/erp-estoque/internal/domain/transaction"
	"github.com/hugohenrick/erp-estoque/pkg/apperror"
)

// BranchStatistics é o resumo de movimentação de uma filial
type BranchStatistics struct {
	transaction.BranchSummary
	BranchName  string `json:"branch_name"`
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name"`
	IsActive    bool   `json:"is_active"`
}

// StatisticsTotals soma as filiais do relatório
type StatisticsTotals struct {
	Transactions int `json:"total_transactions"`
	Withdrawals  int `json:"withdrawals"`
	Returns      int `json:"returns"`
}

// Statistics é o relatório de movimentação por filial em um período
type Statistics struct {
	Period   transaction.Period `json:"period"`
	Branches []BranchStatistics `json:"branches"`
	Totals   StatisticsTotals   `json:"totals"`
}

// BranchStatistics agrega o livro das filiais visíveis no período, opcionalmente
// restrito a uma empresa. Filiais mais movimentadas vêm primeiro.
func (s *Service) BranchStatistics(ctx context.Context, scope access.Scope, period, companyID string) (*Statistics, error) {
	p, err := transaction.ParsePeriod(period)
	if err != nil {
		return nil, err
	}

	branches, err := s.visibleBranches(ctx, scope, companyID)
	if err != nil {
		return nil, err
	}

	report := &Statistics{Period: p, Branches: []BranchStatistics{}}
	if len(branches) == 0 {
		return report, nil
	}

	ids := make([]string, 0, len(branches))
	companyIDs := make([]string, 0, len(branches))
	byID := make(map[string]*branch.Branch, len(branches))
	seen := make(map[string]struct{})
	for _, b := range branches {
		ids = append(ids, b.ID)
		byID[b.ID] = b
		if _, ok := seen[b.CompanyID]; !ok {
			seen[b.CompanyID] = struct{}{}
			companyIDs = append(companyIDs, b.CompanyID)
		}
	}

	companies, err := s.store.Companies().ListByIDs(ctx, companyIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(companies))
	for _, c := range companies {
		names[c.ID] = c.Name
	}

	from, to := p.Range(s.now())
	summaries, err := s.store.Transactions().Summarize(ctx, ids, from, to)
	if err != nil {
		return nil, err
	}

	for _, sum := range summaries {
		b, ok := byID[sum.BranchID]
		if !ok {
			continue
		}
		report.Branches = append(report.Branches, BranchStatistics{
			BranchSummary: sum,
			BranchName:    b.Name,
			CompanyID:     b.CompanyID,
			CompanyName:   names[b.CompanyID],
			IsActive:      b.IsActive,
		})
		report.Totals.Transactions += sum.TotalTransactions
		report.Totals.Withdrawals += sum.Withdrawals
		report.Totals.Returns += sum.Returns
	}

	sort.SliceStable(report.Branches, func(i, j int) bool {
		a, b := report.Branches[i], report.Branches[j]
		if a.TotalTransactions != b.TotalTransactions {
			return a.TotalTransactions > b.TotalTransactions
		}
		return a.BranchName < b.BranchName
	})

	return report, nil
}

// visibleBranches resolve as filiais que o escopo enxerga
func (s *Service) visibleBranches(ctx context.Context, scope access.Scope, companyID string) ([]*branch.Branch, error) {
	if companyID != "" {
		if !scope.CanViewCompany(companyID) {
			return nil, apperror.ErrPermissionDenied.WithDetail("company_id", companyID)
		}
		all, err := s.store.Branches().ListByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}
		visible := all[:0]
		for _, b := range all {
			if scope.CanAccessBranch(b.CompanyID, b.ID) {
				visible = append(visible, b)
			}
		}
		return visible, nil
	}

	if scope.IsUnrestricted() {
		return s.store.Branches().ListAll(ctx)
	}

	ids := scope.BranchIDs()
	if len(ids) == 0 {
		return nil, nil
	}
	return s.store.Branches().ListByIDs(ctx, ids)
}
