package testing

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"pkdindustries/drafter/internal/config"
	"pkdindustries/drafter/internal/core"
	"pkdindustries/drafter/internal/irc"
)

// MockChatContext implements irc.ChatContextInterface for testing
type MockChatContext struct {
	context.Context

	// Configurable return values
	Addressed bool
	Admin     bool
	Private   bool
	ValidFlag bool
	Command   string
	Source    string
	Text      string
	Args      []string

	// Recorded calls (for assertions)
	Replies   []string
	Actions   []string
	QuitCalls []string

	// Injected dependencies
	cfg    *config.Configuration
	sys    core.System
	logger *zap.SugaredLogger
}

// Verify MockChatContext implements irc.ChatContextInterface
var _ irc.ChatContextInterface = (*MockChatContext)(nil)

// NewMockContext creates a new MockChatContext with sensible defaults
func NewMockContext() *MockChatContext {
	return &MockChatContext{
		Context:   context.Background(),
		ValidFlag: true,
		Addressed: true,
		Source:    "alice",
		Args:      []string{},
		Replies:   []string{},
		Actions:   []string{},
		cfg:       DefaultTestConfig(),
		logger:    zap.NewNop().Sugar(),
	}
}

// WithContext sets a custom context (for timeout/cancellation testing)
func (m *MockChatContext) WithContext(ctx context.Context) *MockChatContext {
	m.Context = ctx
	return m
}

// WithAdmin sets the admin flag
func (m *MockChatContext) WithAdmin(admin bool) *MockChatContext {
	m.Admin = admin
	return m
}

// WithPrivate sets whether this is a private message
func (m *MockChatContext) WithPrivate(private bool) *MockChatContext {
	m.Private = private
	return m
}

// WithText sets the message text and derives the arguments and command from it
func (m *MockChatContext) WithText(text string) *MockChatContext {
	m.Text = text
	m.Args = strings.Fields(text)
	m.Command = ""
	if len(m.Args) > 0 {
		m.Command = strings.ToLower(m.Args[0])
	}
	return m
}

// WithConfig sets the configuration
func (m *MockChatContext) WithConfig(cfg *config.Configuration) *MockChatContext {
	m.cfg = cfg
	return m
}

// WithSystem sets the system
func (m *MockChatContext) WithSystem(sys core.System) *MockChatContext {
	m.sys = sys
	return m
}

// Event methods

func (m *MockChatContext) IsAddressed() bool  { return m.Addressed }
func (m *MockChatContext) IsAdmin() bool      { return m.Admin }
func (m *MockChatContext) Valid() bool        { return m.ValidFlag }
func (m *MockChatContext) IsPrivate() bool    { return m.Private }
func (m *MockChatContext) GetCommand() string { return m.Command }
func (m *MockChatContext) GetSource() string  { return m.Source }
func (m *MockChatContext) GetArgs() []string  { return m.Args }
func (m *MockChatContext) GetText() string    { return m.Text }

// Responder methods

func (m *MockChatContext) Reply(msg string) {
	m.Replies = append(m.Replies, msg)
}

func (m *MockChatContext) Action(msg string) {
	m.Actions = append(m.Actions, msg)
}

func (m *MockChatContext) Quit(msg string) {
	m.QuitCalls = append(m.QuitCalls, msg)
}

// Runtime methods

func (m *MockChatContext) GetConfig() *config.Configuration { return m.cfg }
func (m *MockChatContext) GetSystem() core.System           { return m.sys }
func (m *MockChatContext) GetLogger() *zap.SugaredLogger    { return m.logger }

// HasReply checks if any reply contains the given substring
func (m *MockChatContext) HasReply(substring string) bool {
	for _, r := range m.Replies {
		if strings.Contains(r, substring) {
			return true
		}
	}
	return false
}

// HasAction checks if any action contains the given substring
func (m *MockChatContext) HasAction(substring string) bool {
	for _, a := range m.Actions {
		if strings.Contains(a, substring) {
			return true
		}
	}
	return false
}

// LastReply returns the last reply, or empty string if none
func (m *MockChatContext) LastReply() string {
	if len(m.Replies) == 0 {
		return ""
	}
	return m.Replies[len(m.Replies)-1]
}
