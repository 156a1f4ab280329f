package irc

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/lrstanley/girc"
	"go.uber.org/zap"

	"pkdindustries/drafter/internal/config"
	"pkdindustries/drafter/internal/core"
)

// ChatContextInterface provides all context needed for handling IRC messages
type ChatContextInterface interface {
	context.Context

	// Event methods
	IsAddressed() bool
	IsAdmin() bool
	Valid() bool
	IsPrivate() bool
	GetCommand() string
	GetSource() string
	GetArgs() []string
	GetText() string

	// Responder methods
	Reply(string)
	Action(string)
	Quit(string)

	// Runtime methods
	GetConfig() *config.Configuration
	GetSystem() core.System
	GetLogger() *zap.SugaredLogger
}

type ChatContext struct {
	context.Context
	Sys       core.System
	Config    *config.Configuration
	client    *girc.Client
	event     *girc.Event
	text      string
	args      []string
	logger    *zap.SugaredLogger
	requestID string
}

var _ ChatContextInterface = (*ChatContext)(nil)

func NewChatContext(parentctx context.Context, config *config.Configuration, system core.System, ircclient *girc.Client, e *girc.Event) (ChatContextInterface, context.CancelFunc) {
	timedctx, cancel := context.WithTimeout(parentctx, config.API.Timeout)

	if e.Source == nil {
		e.Source = &girc.Source{
			Name: config.Server.Channel,
		}
	}

	requestID := generateRequestID()
	nick := ircclient.GetNick()
	text := StripAddress(e.Last(), nick)

	ctx := ChatContext{
		Context:   timedctx,
		Config:    config,
		Sys:       system,
		client:    ircclient,
		event:     e,
		text:      text,
		args:      strings.Fields(text),
		requestID: requestID,
		logger: core.WithSurface(
			core.WithFields("request_id", requestID, "source", e.Source.Name),
			"irc", e.Params[0],
		),
	}

	return ctx, cancel
}

func (c ChatContext) GetSystem() core.System {
	return c.Sys
}

func (c ChatContext) GetConfig() *config.Configuration {
	return c.Config
}

func (c ChatContext) GetLogger() *zap.SugaredLogger {
	return c.logger
}

func (c ChatContext) IsAddressed() bool {
	return CheckAddressed(c.event.Last(), c.client.GetNick())
}

func (c ChatContext) GetArgs() []string {
	return c.args
}

// GetText returns the message with the bot's address removed
func (c ChatContext) GetText() string {
	return c.text
}

func (c ChatContext) GetSource() string {
	return c.event.Source.Name
}

func (c ChatContext) IsAdmin() bool {
	hostmask := c.event.Source.String()
	c.logger.Debugw("Checking hostmask", "hostmask", hostmask)
	return CheckAdmin(hostmask, c.Config.Bot.Admins)
}

func (c ChatContext) Reply(message string) {
	c.client.Cmd.Reply(*c.event, message)
}

func (c ChatContext) Action(message string) {
	target := c.event.Params[0]
	if !girc.IsValidChannel(target) {
		c.client.Cmd.Message(c.event.Source.Name, message)
		return
	}
	c.client.Cmd.Action(target, message)
}

// Quit disconnects from the server with the given message
func (c ChatContext) Quit(message string) {
	c.client.Quit(message)
}

func (c ChatContext) Valid() bool {
	return CheckValid(c.IsAddressed(), c.Config.Bot.Addressed, c.IsPrivate(), c.text)
}

func (c ChatContext) IsPrivate() bool {
	return CheckPrivate(c.event.Params[0])
}

func (c ChatContext) GetCommand() string {
	if len(c.args) == 0 {
		return ""
	}
	return strings.ToLower(c.args[0])
}

// generateRequestID creates a unique 8-character request ID for correlation
func generateRequestID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}
