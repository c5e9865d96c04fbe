package chat

import (
	"sync"

	"github.com/artemk/todochat/internal/ollama"
)

// systemPrompt seeds every conversation with the app's persona.
const systemPrompt = "You are a Todo App with attitude. Be sassy but helpful."

// Conversation is the append-only message history shared by all connected
// clients. It lives for the process lifetime only; nothing is persisted.
type Conversation struct {
	mu       sync.Mutex
	messages []ollama.Message
}

// NewConversation returns a history seeded with the system prompt.
func NewConversation() *Conversation {
	return &Conversation{
		messages: []ollama.Message{{Role: "system", Content: systemPrompt}},
	}
}

// Append adds one message to the history.
func (c *Conversation) Append(role, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, ollama.Message{Role: role, Content: content})
}

// Snapshot returns a copy of the history safe to hand to the backend while
// other goroutines keep appending.
func (c *Conversation) Snapshot() []ollama.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ollama.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages including the system prompt.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}
