package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hcp-suporte/helpdesk-service/internal/ai"
	"github.com/hcp-suporte/helpdesk-service/internal/domain"
	"github.com/hcp-suporte/helpdesk-service/internal/observability"
	"github.com/hcp-suporte/helpdesk-service/internal/repository"
)

// Fixed report messages. The empty-set message is returned without
// calling the model at all; the error message replaces a failed call.
const (
	emptyReportSummary  = "Selecione um período com chamados para gerar análise."
	summaryErrorMessage = "Erro ao gerar resumo de IA."
)

// ReportFilter selects tickets by creation date. Dates are YYYY-MM-DD
// strings compared against the date portion of createdAt, inclusive at
// both ends. A set Day takes precedence over the range.
type ReportFilter struct {
	Start string
	End   string
	Day   string
}

// CategoryCount is one category aggregation bucket.
type CategoryCount struct {
	Category domain.TicketCategory `json:"category"`
	Count    int                   `json:"count"`
}

// StatusCount is one status aggregation bucket.
type StatusCount struct {
	Status domain.TicketStatus `json:"status"`
	Count  int                 `json:"count"`
}

// Report is the aggregated view over the filtered ticket set.
type Report struct {
	Total      int
	ByCategory []CategoryCount
	ByStatus   []StatusCount
	Summary    string
	Tickets    []domain.Ticket
}

// ReportService derives dashboard aggregations and exports from the
// ticket store snapshot.
type ReportService struct {
	tickets    repository.TicketRepository
	summarizer ai.Client
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(tickets repository.TicketRepository, summarizer ai.Client, metrics *observability.Metrics, logger *zap.Logger) *ReportService {
	return &ReportService{tickets: tickets, summarizer: summarizer, metrics: metrics, logger: logger}
}

// BuildReport filters the collection, aggregates it and attaches the AI
// summary.
func (s *ReportService) BuildReport(ctx context.Context, filter ReportFilter) (*Report, error) {
	all, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := FilterTickets(all, filter)

	return &Report{
		Total:      len(filtered),
		ByCategory: AggregateByCategory(filtered),
		ByStatus:   AggregateByStatus(filtered),
		Summary:    s.summarize(ctx, filtered),
		Tickets:    filtered,
	}, nil
}

// ExportCSV renders the filtered set as a CSV attachment. The format
// deliberately matches the legacy export: commas inside the title are
// replaced by semicolons, no quoting.
func (s *ReportService) ExportCSV(ctx context.Context, filter ReportFilter) (string, []byte, error) {
	all, err := s.tickets.ListAll(ctx)
	if err != nil {
		return "", nil, err
	}
	filtered := FilterTickets(all, filter)

	var b strings.Builder
	b.WriteString("ID,Data,Solicitante,Setor,Categoria,Prioridade,Status,Titulo\n")
	for _, t := range filtered {
		row := []string{
			t.ID,
			t.CreatedAt.Local().Format("02/01/2006 15:04:05"),
			t.ClientName,
			t.Sector,
			string(t.Category),
			string(t.Priority),
			string(t.Status),
			strings.ReplaceAll(t.Title, ",", ";"),
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}

	filename := fmt.Sprintf("relatorio_helpdesk_%s_a_%s.csv", filter.Start, filter.End)
	return filename, []byte(b.String()), nil
}

func (s *ReportService) summarize(ctx context.Context, tickets []domain.Ticket) string {
	if len(tickets) == 0 {
		return emptyReportSummary
	}

	entries := make([]ai.ReportEntry, 0, len(tickets))
	for _, t := range tickets {
		entries = append(entries, ai.ReportEntry{Category: t.Category, Status: t.Status})
	}

	summary, err := s.summarizer.SummarizeReport(ctx, entries)
	s.metrics.RecordAICall("summarize_report", err != nil)
	if err != nil {
		s.logger.Warn("report summary failed", zap.Error(err))
		return summaryErrorMessage
	}
	return summary
}

// FilterTickets applies the report filter: a set day wins over the range.
func FilterTickets(tickets []domain.Ticket, filter ReportFilter) []domain.Ticket {
	if filter.Day != "" {
		return FilterByDay(tickets, filter.Day)
	}
	return FilterByRange(tickets, filter.Start, filter.End)
}

// FilterByDay returns the tickets created on exactly the given day.
func FilterByDay(tickets []domain.Ticket, day string) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.CreatedAt.Format("2006-01-02") == day {
			out = append(out, t)
		}
	}
	return out
}

// FilterByRange returns tickets created within [start, end], inclusive at
// both ends. An empty bound leaves that side open.
func FilterByRange(tickets []domain.Ticket, start, end string) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		day := t.CreatedAt.Format("2006-01-02")
		if start != "" && day < start {
			continue
		}
		if end != "" && day > end {
			continue
		}
		out = append(out, t)
	}
	return out
}

// AggregateByCategory groups the set by category in first-seen order.
func AggregateByCategory(tickets []domain.Ticket) []CategoryCount {
	index := make(map[domain.TicketCategory]int)
	out := make([]CategoryCount, 0)
	for _, t := range tickets {
		if i, ok := index[t.Category]; ok {
			out[i].Count++
			continue
		}
		index[t.Category] = len(out)
		out = append(out, CategoryCount{Category: t.Category, Count: 1})
	}
	return out
}

// AggregateByStatus groups the set by status in first-seen order.
func AggregateByStatus(tickets []domain.Ticket) []StatusCount {
	index := make(map[domain.TicketStatus]int)
	out := make([]StatusCount, 0)
	for _, t := range tickets {
		if i, ok := index[t.Status]; ok {
			out[i].Count++
			continue
		}
		index[t.Status] = len(out)
		out = append(out, StatusCount{Status: t.Status, Count: 1})
	}
	return out
}
