package screens

import (
	"context"
	"strings"
	"sync"

	"hirelink/internal/guard"
	"hirelink/internal/types"
)

const (
	ChatGreeting  = "Hello, Sir. How can I assist you!"
	MsgChatFailed = "Sorry, something went wrong. Please try again."
)

// Chat is the assistant widget. It lives beside the screens rather than on
// one of them, so its history survives navigation.
type Chat struct {
	app     *App
	mu      sync.Mutex
	history []types.ChatMessage
}

// Chat returns the widget, creating it on first use.
func (a *App) Chat() *Chat {
	a.chatOnce.Do(func() {
		a.chat = &Chat{app: a, history: []types.ChatMessage{{Sender: types.SenderBot, Text: ChatGreeting}}}
	})
	return a.chat
}

// OpenChat mounts the chat screen and returns the widget.
func (a *App) OpenChat() (*Chat, error) {
	if _, _, err := a.mount(guard.RouteChat); err != nil {
		return nil, err
	}
	return a.Chat(), nil
}

// Send asks the assistant one question and returns the bot's reply as it
// was appended to the history. Blank input is ignored and returns nil. A
// failed call is answered with an apology, not an error, unless the
// session was invalidated.
func (c *Chat) Send(ctx context.Context, text string) (*types.ChatMessage, error) {
	query := strings.TrimSpace(text)
	if query == "" {
		return nil, nil
	}
	c.append(types.ChatMessage{Sender: types.SenderUser, Text: query})

	answer, err := c.app.api.Chat(ctx, query)
	if err != nil {
		if c.app.recoverSession(err) {
			return nil, err
		}
		c.app.logger.Debug("Chat query failed", "error", err)
		answer = MsgChatFailed
	}

	reply := types.ChatMessage{Sender: types.SenderBot, Text: answer}
	c.append(reply)
	return &reply, nil
}

// History returns a copy of the conversation so far.
func (c *Chat) History() []types.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.ChatMessage(nil), c.history...)
}

func (c *Chat) append(m types.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, m)
}
