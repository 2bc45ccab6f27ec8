package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hcp-suporte/helpdesk-service/internal/ai"
	"github.com/hcp-suporte/helpdesk-service/internal/domain"
	"github.com/hcp-suporte/helpdesk-service/internal/observability"
	"github.com/hcp-suporte/helpdesk-service/internal/repository"
	apperrors "github.com/hcp-suporte/helpdesk-service/pkg/util"
)

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]domain.Ticket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tickets[ticket.ID]; exists {
		return errors.New("duplicate id")
	}
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tickets[ticket.ID]; !exists {
		return repository.ErrTicketNotFound
	}
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, repository.ErrTicketNotFound
	}
	return &ticket, nil
}

func (r *fakeTicketRepo) ListAll(_ context.Context) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		out = append(out, ticket)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeTicketRepo) ListByClient(ctx context.Context, clientID string) ([]domain.Ticket, error) {
	all, _ := r.ListAll(ctx)
	out := make([]domain.Ticket, 0, len(all))
	for _, ticket := range all {
		if ticket.ClientID == clientID {
			out = append(out, ticket)
		}
	}
	return out, nil
}

type fakeAI struct {
	analysis   ai.Analysis
	analyzeErr error

	summary    string
	summaryErr error
	gotEntries []ai.ReportEntry

	reply       string
	completeErr error
}

func (f *fakeAI) AnalyzeTicket(context.Context, string, string, domain.TicketCategory) (*ai.Analysis, error) {
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	analysis := f.analysis
	return &analysis, nil
}

func (f *fakeAI) SummarizeReport(_ context.Context, entries []ai.ReportEntry) (string, error) {
	f.gotEntries = entries
	if f.summaryErr != nil {
		return "", f.summaryErr
	}
	return f.summary, nil
}

func (f *fakeAI) Complete(context.Context, []ai.Message) (string, error) {
	if f.completeErr != nil {
		return "", f.completeErr
	}
	return f.reply, nil
}

func newTicketService(repo repository.TicketRepository, model ai.Client) *TicketService {
	return NewTicketService(TicketDependencies{
		TicketRepo: repo,
		Analyzer:   model,
		Metrics:    observability.NewMetrics(),
		Logger:     zap.NewNop(),
	})
}

func validInput() TicketCreateInput {
	return TicketCreateInput{
		ClientName:  "Ana",
		Sector:      "Financeiro",
		Phone:       "1234",
		Title:       "Printer jam",
		Description: "Paper stuck in tray 2",
		Category:    domain.TicketCategoryPrinter,
	}
}

func client(id string) domain.User {
	return domain.User{ID: id, Name: "Ana", Role: domain.RoleClient}
}

func TestCreateTicket(t *testing.T) {
	repo := newFakeTicketRepo()
	model := &fakeAI{analysis: ai.Analysis{
		SuggestedPriority: domain.TicketPriorityHigh,
		Summary:           "Atolamento de papel",
		SuggestedAction:   "Verificar bandeja 2",
	}}
	svc := newTicketService(repo, model)

	ticket, err := svc.CreateTicket(context.Background(), client("c1"), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, _ := repo.ListAll(context.Background())
	if len(all) != 1 {
		t.Fatalf("expected 1 stored ticket, got %d", len(all))
	}
	if ticket.Status != domain.TicketStatusPending {
		t.Errorf("expected status %q, got %q", domain.TicketStatusPending, ticket.Status)
	}
	if !ticket.CreatedAt.Equal(ticket.UpdatedAt) {
		t.Errorf("createdAt %v != updatedAt %v", ticket.CreatedAt, ticket.UpdatedAt)
	}
	if ticket.Priority != domain.TicketPriorityHigh {
		t.Errorf("expected priority Alta, got %q", ticket.Priority)
	}
	if ticket.ClientID != "c1" {
		t.Errorf("expected clientId c1, got %q", ticket.ClientID)
	}
	if !strings.Contains(ticket.AIInsights, "Atolamento de papel") || !strings.Contains(ticket.AIInsights, "Verificar bandeja 2") {
		t.Errorf("insights missing analysis content: %q", ticket.AIInsights)
	}
	if ticket.ID == "" {
		t.Error("expected generated id")
	}
}

func TestCreateTicketAnalysisFailureFallsBack(t *testing.T) {
	repo := newFakeTicketRepo()
	model := &fakeAI{analyzeErr: errors.New("model unreachable")}
	svc := newTicketService(repo, model)

	ticket, err := svc.CreateTicket(context.Background(), client("c1"), validInput())
	if err != nil {
		t.Fatalf("creation must not block on AI failure: %v", err)
	}
	if ticket.Priority != domain.TicketPriorityMedium {
		t.Errorf("expected fallback priority Média, got %q", ticket.Priority)
	}
	if !strings.Contains(ticket.AIInsights, "Análise não disponível no momento.") {
		t.Errorf("expected fallback insight, got %q", ticket.AIInsights)
	}
	all, _ := repo.ListAll(context.Background())
	if len(all) != 1 {
		t.Fatalf("expected ticket stored despite AI failure, got %d", len(all))
	}
}

func TestCreateTicketValidation(t *testing.T) {
	svc := newTicketService(newFakeTicketRepo(), &fakeAI{})

	cases := []struct {
		name   string
		mutate func(*TicketCreateInput)
	}{
		{"missing name", func(in *TicketCreateInput) { in.ClientName = "  " }},
		{"missing sector", func(in *TicketCreateInput) { in.Sector = "" }},
		{"missing phone", func(in *TicketCreateInput) { in.Phone = "" }},
		{"missing title", func(in *TicketCreateInput) { in.Title = "" }},
		{"missing description", func(in *TicketCreateInput) { in.Description = "" }},
		{"unknown category", func(in *TicketCreateInput) { in.Category = "Jardinagem" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)
			if _, err := svc.CreateTicket(context.Background(), client("c1"), input); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateTicketAdminForbidden(t *testing.T) {
	svc := newTicketService(newFakeTicketRepo(), &fakeAI{})
	admin := domain.User{ID: "admin-1", Role: domain.RoleAdmin}
	if _, err := svc.CreateTicket(context.Background(), admin, validInput()); err == nil {
		t.Fatal("expected forbidden error for admin submission")
	}
}

func TestListTicketsOwnership(t *testing.T) {
	repo := newFakeTicketRepo()
	model := &fakeAI{analysis: ai.Analysis{SuggestedPriority: domain.TicketPriorityLow}}
	svc := newTicketService(repo, model)

	ctx := context.Background()
	if _, err := svc.CreateTicket(ctx, client("c1"), validInput()); err != nil {
		t.Fatal(err)
	}
	other := validInput()
	other.ClientName = "Bruno"
	if _, err := svc.CreateTicket(ctx, client("c2"), other); err != nil {
		t.Fatal(err)
	}

	own, err := svc.ListTickets(ctx, client("c1"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(own) != 1 {
		t.Fatalf("expected 1 owned ticket, got %d", len(own))
	}
	for _, ticket := range own {
		if ticket.ClientID != "c1" {
			t.Errorf("client listing leaked ticket of %q", ticket.ClientID)
		}
	}

	all, err := svc.ListTickets(ctx, domain.User{ID: "admin-1", Role: domain.RoleAdmin}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin expected full collection, got %d", len(all))
	}
}

func TestListTicketsStatusFilter(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := newTicketService(repo, &fakeAI{analysis: ai.Analysis{SuggestedPriority: domain.TicketPriorityLow}})
	ctx := context.Background()
	admin := domain.User{ID: "admin-1", Role: domain.RoleAdmin}

	first, _ := svc.CreateTicket(ctx, client("c1"), validInput())
	if _, err := svc.CreateTicket(ctx, client("c1"), validInput()); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateStatus(ctx, admin, first.ID, domain.TicketStatusDone, ""); err != nil {
		t.Fatal(err)
	}

	done, err := svc.ListTickets(ctx, admin, domain.TicketStatusDone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(done) != 1 || done[0].ID != first.ID {
		t.Fatalf("expected only the concluded ticket, got %d", len(done))
	}

	if _, err := svc.ListTickets(ctx, admin, domain.TicketStatus("Inventado")); err == nil {
		t.Fatal("expected error for unknown status filter")
	}
}

func TestUpdateStatusTouchesOnlyTarget(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := newTicketService(repo, &fakeAI{analysis: ai.Analysis{SuggestedPriority: domain.TicketPriorityHigh}})
	ctx := context.Background()
	admin := domain.User{ID: "admin-1", Role: domain.RoleAdmin}

	target, _ := svc.CreateTicket(ctx, client("c1"), validInput())
	bystander, _ := svc.CreateTicket(ctx, client("c2"), validInput())

	before, _ := repo.GetByID(ctx, bystander.ID)
	beforeJSON, _ := json.Marshal(before)
	createdAt := target.CreatedAt

	time.Sleep(5 * time.Millisecond)
	updated, err := svc.UpdateStatus(ctx, admin, target.ID, domain.TicketStatusDone, "Replaced toner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Status != domain.TicketStatusDone {
		t.Errorf("expected status Concluído, got %q", updated.Status)
	}
	if updated.ResolutionNotes != "Replaced toner" {
		t.Errorf("expected notes overwritten, got %q", updated.ResolutionNotes)
	}
	if !updated.UpdatedAt.After(createdAt) {
		t.Error("expected updatedAt refreshed")
	}
	if !updated.CreatedAt.Equal(createdAt) {
		t.Error("createdAt must be immutable")
	}
	if updated.Priority != domain.TicketPriorityHigh {
		t.Error("priority must not change on status update")
	}

	after, _ := repo.GetByID(ctx, bystander.ID)
	afterJSON, _ := json.Marshal(after)
	if string(beforeJSON) != string(afterJSON) {
		t.Errorf("untouched record changed:\nbefore %s\nafter  %s", beforeJSON, afterJSON)
	}
}

func TestUpdateStatusKeepsNotesWhenEmpty(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := newTicketService(repo, &fakeAI{analysis: ai.Analysis{SuggestedPriority: domain.TicketPriorityLow}})
	ctx := context.Background()
	admin := domain.User{ID: "admin-1", Role: domain.RoleAdmin}

	ticket, _ := svc.CreateTicket(ctx, client("c1"), validInput())
	if _, err := svc.UpdateStatus(ctx, admin, ticket.ID, domain.TicketStatusInProgress, "first note"); err != nil {
		t.Fatal(err)
	}

	updated, err := svc.UpdateStatus(ctx, admin, ticket.ID, domain.TicketStatusDone, "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ResolutionNotes != "first note" {
		t.Errorf("blank notes must keep prior value, got %q", updated.ResolutionNotes)
	}
}

func TestUpdateStatusErrors(t *testing.T) {
	svc := newTicketService(newFakeTicketRepo(), &fakeAI{})
	admin := domain.User{ID: "admin-1", Role: domain.RoleAdmin}

	if _, err := svc.UpdateStatus(context.Background(), admin, "missing", domain.TicketStatusDone, ""); err == nil {
		t.Fatal("expected not found error")
	} else {
		var domainErr *apperrors.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
			t.Fatalf("expected NOT_FOUND, got %v", err)
		}
	}

	if _, err := svc.UpdateStatus(context.Background(), admin, "any", "Arquivado", ""); err == nil {
		t.Fatal("expected validation error for unknown status")
	}
}

func TestStats(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := newTicketService(repo, &fakeAI{analysis: ai.Analysis{SuggestedPriority: domain.TicketPriorityLow}})
	ctx := context.Background()
	admin := domain.User{ID: "admin-1", Role: domain.RoleAdmin}

	a, _ := svc.CreateTicket(ctx, client("c1"), validInput())
	b, _ := svc.CreateTicket(ctx, client("c1"), validInput())
	if _, err := svc.CreateTicket(ctx, client("c2"), validInput()); err != nil {
		t.Fatal(err)
	}
	svc.UpdateStatus(ctx, admin, a.ID, domain.TicketStatusInProgress, "")
	svc.UpdateStatus(ctx, admin, b.ID, domain.TicketStatusDone, "done")

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 3 || stats.Pending != 1 || stats.InProgress != 1 || stats.Resolved != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
