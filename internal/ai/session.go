package ai

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/hcp-suporte/helpdesk-service/internal/domain"
)

// ErrSessionNotFound signals a message sent to an unknown or closed session.
var ErrSessionNotFound = errors.New("chat session not found")

// openingTurn is the canned first user turn that kicks off a
// troubleshooting conversation.
const openingTurn = "Olá, pode me dar a primeira dica para resolver um problema desta categoria?"

// SessionManager holds in-memory multi-turn troubleshooting conversations,
// each scoped to one ticket category. Sessions live for the duration of
// the process; there is no persistence.
type SessionManager struct {
	client Client

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	category domain.TicketCategory
	history  []Message
}

// NewSessionManager builds a registry backed by the given model client.
func NewSessionManager(client Client) *SessionManager {
	return &SessionManager{
		client:   client,
		sessions: make(map[string]*session),
	}
}

// Start opens a session for the category and asks the model for its
// greeting turn. The session is registered even when the model call
// fails, so the caller can surface a fallback greeting and let the user
// keep talking; the returned id is always valid.
func (m *SessionManager) Start(ctx context.Context, category domain.TicketCategory) (string, string, error) {
	id := uuid.NewString()
	s := &session{
		category: category,
		history: []Message{
			{Role: RoleSystem, Content: troubleshootingPrompt(category)},
			{Role: RoleUser, Content: openingTurn},
		},
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	greeting, err := m.client.Complete(ctx, s.history)
	if err != nil {
		return id, "", err
	}

	m.mu.Lock()
	s.history = append(s.history, Message{Role: RoleAssistant, Content: greeting})
	m.mu.Unlock()
	return id, greeting, nil
}

// Send appends a user turn and returns the assistant reply. On model
// failure the user turn is kept so a retry re-sends the full context.
func (m *SessionManager) Send(ctx context.Context, id, text string) (string, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return "", ErrSessionNotFound
	}
	s.history = append(s.history, Message{Role: RoleUser, Content: text})
	turns := make([]Message, len(s.history))
	copy(turns, s.history)
	m.mu.Unlock()

	reply, err := m.client.Complete(ctx, turns)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	s.history = append(s.history, Message{Role: RoleAssistant, Content: reply})
	m.mu.Unlock()
	return reply, nil
}

// Close discards the session. Closing an unknown id is a no-op.
func (m *SessionManager) Close(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Category returns the category a session was opened for.
func (m *SessionManager) Category(id string) (domain.TicketCategory, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return "", false
	}
	return s.category, true
}

func troubleshootingPrompt(category domain.TicketCategory) string {
	return fmt.Sprintf(`Você é um técnico de TI especializado em suporte nível 1.
Seu objetivo é ajudar o usuário a resolver problemas técnicos de forma amigável e passo a passo.
A categoria do problema atual é: %s.
- Seja conciso.
- Use bullet points para instruções.
- Se o problema parecer complexo demais, sugira que o usuário finalize a conversa e abra o chamado formal.
- Comece saudando o usuário e oferecendo a primeira solução simples para %s.`, category, category)
}
