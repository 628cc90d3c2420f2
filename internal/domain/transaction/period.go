package transaction

import "time"

// Period é a janela usada nas estatísticas por filial
type Period string

const (
	PeriodYesterday Period = "yesterday"
	PeriodMonth     Period = "month"
	PeriodYear      Period = "year"
	PeriodAll       Period = "all"
)

// ParsePeriod interpreta o período, assumindo "all" quando vazio
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case "":
		return PeriodAll, nil
	case PeriodYesterday, PeriodMonth, PeriodYear, PeriodAll:
		return p, nil
	default:
		return "", ErrInvalidPeriod.WithDetail("period", s)
	}
}

// Range devolve o intervalo do período relativo a now. Para "all" ambos são nil.
// "yesterday" cobre as últimas 24 horas.
func (p Period) Range(now time.Time) (from, to *time.Time) {
	var start time.Time
	switch p {
	case PeriodYesterday:
		start = now.Add(-24 * time.Hour)
	case PeriodMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case PeriodYear:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return nil, nil
	}
	end := now
	return &start, &end
}
