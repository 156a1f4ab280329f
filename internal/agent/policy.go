package agent

import (
	"fmt"
	"strings"

	"pkdindustries/drafter/internal/transcript"
)

const (
	PolicySaveMarker  = "savemarker"
	PolicyUserControl = "usercontrol"
)

// Policy decides whether a completed tool round ends the session.
type Policy interface {
	Name() string
	Terminal(results []transcript.Message) bool
}

// SaveMarkerPolicy ends the session once a tool result reports that the
// document was saved. Error results never count.
type SaveMarkerPolicy struct{}

func (SaveMarkerPolicy) Name() string { return PolicySaveMarker }

func (SaveMarkerPolicy) Terminal(results []transcript.Message) bool {
	for _, m := range results {
		if m.Role != transcript.RoleToolResult || strings.HasPrefix(m.Content, "Error") {
			continue
		}
		content := strings.ToLower(m.Content)
		if strings.Contains(content, "saved") && strings.Contains(content, "document") {
			return true
		}
	}
	return false
}

// UserControlPolicy never ends the session from tool results; only the user
// can end it.
type UserControlPolicy struct{}

func (UserControlPolicy) Name() string { return PolicyUserControl }

func (UserControlPolicy) Terminal([]transcript.Message) bool { return false }

// PolicyByName returns the policy registered under name
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PolicySaveMarker, "":
		return SaveMarkerPolicy{}, nil
	case PolicyUserControl:
		return UserControlPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown termination policy %q (want %s or %s)", name, PolicySaveMarker, PolicyUserControl)
	}
}
