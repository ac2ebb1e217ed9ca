package messaging

import (
	"context"
	"sync"

	"github.com/PabloGalante/reviewsense-agent/internal/domain"
)

// SentMessage is one captured outbound message.
type SentMessage struct {
	To         domain.ManagerID
	Text       string
	TemplateID string
	Variables  map[string]string
}

// MockMessenger records outbound messages instead of delivering them. Used
// in local mode and tests.
type MockMessenger struct {
	mu   sync.Mutex
	sent []SentMessage

	// FailNext makes the next send return this error and then clears it.
	FailNext error
}

func NewMockMessenger() *MockMessenger {
	return &MockMessenger{}
}

func (m *MockMessenger) SendText(ctx context.Context, to domain.ManagerID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.FailNext; err != nil {
		m.FailNext = nil
		return err
	}
	m.sent = append(m.sent, SentMessage{To: to, Text: text})
	return nil
}

func (m *MockMessenger) SendTemplate(ctx context.Context, to domain.ManagerID, templateID string, vars map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.FailNext; err != nil {
		m.FailNext = nil
		return err
	}
	m.sent = append(m.sent, SentMessage{To: to, TemplateID: templateID, Variables: vars})
	return nil
}

// Sent returns a copy of everything sent so far.
func (m *MockMessenger) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// Last returns the most recent message, if any.
func (m *MockMessenger) Last() (SentMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sent) == 0 {
		return SentMessage{}, false
	}
	return m.sent[len(m.sent)-1], true
}
