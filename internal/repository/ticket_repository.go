package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hcp-suporte/helpdesk-service/internal/domain"
	apperrors "github.com/hcp-suporte/helpdesk-service/pkg/util"
)

// ticketsKey is the Redis hash holding all tickets, field = ticket id,
// value = JSON document. Per-record reads and writes; the collection is
// never rewritten as a whole.
const ticketsKey = "helpdesk:tickets"

// ErrTicketNotFound signals a lookup for an unknown ticket id.
var ErrTicketNotFound = errors.New("ticket not found")

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.Ticket, error)
}

type ticketRepository struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewTicketRepository instantiates the Redis-backed repository.
func NewTicketRepository(rdb *redis.Client, logger *zap.Logger) TicketRepository {
	return &ticketRepository{rdb: rdb, logger: logger}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	data, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("encode ticket: %w", err)
	}
	created, err := r.rdb.HSetNX(ctx, ticketsKey, ticket.ID, data).Result()
	if err != nil {
		return fmt.Errorf("store ticket: %w", err)
	}
	if !created {
		return apperrors.NewConflict("ticket id already exists", map[string]any{"id": ticket.ID})
	}
	return nil
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	exists, err := r.rdb.HExists(ctx, ticketsKey, ticket.ID).Result()
	if err != nil {
		return fmt.Errorf("check ticket: %w", err)
	}
	if !exists {
		return ErrTicketNotFound
	}
	data, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("encode ticket: %w", err)
	}
	if err := r.rdb.HSet(ctx, ticketsKey, ticket.ID, data).Err(); err != nil {
		return fmt.Errorf("store ticket: %w", err)
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	data, err := r.rdb.HGet(ctx, ticketsKey, id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("load ticket: %w", err)
	}
	var ticket domain.Ticket
	if err := json.Unmarshal([]byte(data), &ticket); err != nil {
		return nil, fmt.Errorf("decode ticket %s: %w", id, err)
	}
	return &ticket, nil
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	entries, err := r.rdb.HGetAll(ctx, ticketsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("load tickets: %w", err)
	}

	tickets := decodeTickets(entries, r.logger)
	sortNewestFirst(tickets)
	return tickets, nil
}

// decodeTickets unmarshals hash entries. A corrupt record must not take
// the whole listing down; it is skipped and logged.
func decodeTickets(entries map[string]string, logger *zap.Logger) []domain.Ticket {
	tickets := make([]domain.Ticket, 0, len(entries))
	for id, data := range entries {
		var ticket domain.Ticket
		if err := json.Unmarshal([]byte(data), &ticket); err != nil {
			logger.Warn("skipping undecodable ticket record",
				zap.String("ticket_id", id), zap.Error(err))
			continue
		}
		tickets = append(tickets, ticket)
	}
	return tickets
}

func (r *ticketRepository) ListByClient(ctx context.Context, clientID string) ([]domain.Ticket, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	owned := make([]domain.Ticket, 0, len(all))
	for _, ticket := range all {
		if ticket.ClientID == clientID {
			owned = append(owned, ticket)
		}
	}
	return owned, nil
}

func sortNewestFirst(tickets []domain.Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
}
