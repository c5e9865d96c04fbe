package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/artemk/todochat/internal/ollama"
)

const (
	// maxCommentWords caps the auxiliary sassy comments fired on todo
	// mutations. The main conversation path is uncapped.
	maxCommentWords = 40

	defaultReplayInterval = 50 * time.Millisecond
)

// ChatClient is the slice of the Ollama client the responder needs.
type ChatClient interface {
	Chat(ctx context.Context, model string, messages []ollama.Message) (string, error)
}

// Renderer turns chat lines into the wire fragments pushed to clients.
// The web layer owns the HTML; the responder only decides what to say and
// when each increment goes out.
type Renderer interface {
	UserLine(text string) string
	AssistantLine(text string) string
	ClearInput() string
}

// Responder drives all chat output. The backend call is a single blocking
// round trip; the finished answer is then replayed word by word to every
// registered connection ("replay-based streaming emulation" — the full answer
// is known before the first increment goes out).
type Responder struct {
	client       ChatClient
	model        string
	registry     *Registry
	renderer     Renderer
	conversation *Conversation
	interval     time.Duration
	logger       *slog.Logger

	wg sync.WaitGroup
}

// NewResponder wires a Responder. If interval <= 0, the replay delay defaults
// to 50ms.
func NewResponder(client ChatClient, model string, registry *Registry, renderer Renderer, interval time.Duration) *Responder {
	if interval <= 0 {
		interval = defaultReplayInterval
	}
	return &Responder{
		client:       client,
		model:        model,
		registry:     registry,
		renderer:     renderer,
		conversation: NewConversation(),
		interval:     interval,
		logger:       slog.Default(),
	}
}

// Model returns the model name the responder chats with.
func (r *Responder) Model() string {
	return r.model
}

// Conversation exposes the shared history (used by the MCP surface and tests).
func (r *Responder) Conversation() *Conversation {
	return r.conversation
}

// Spawn runs task on its own goroutine. Panics are recovered and logged so a
// misbehaving background comment never takes the server down; Wait drains
// in-flight tasks during shutdown.
func (r *Responder) Spawn(task func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				r.logger.Error("chat task panicked", "panic", p)
			}
		}()
		task()
	}()
}

// Wait blocks until all spawned tasks have finished.
func (r *Responder) Wait() {
	r.wg.Wait()
}

// Respond handles one user chat message end to end: append it to the shared
// conversation, echo it to everyone, ask the backend for a reply, and replay
// the reply word by word. A non-200 backend answer is delivered once as
// literal error text; a transport failure is logged and swallowed.
func (r *Responder) Respond(ctx context.Context, userMsg string) {
	if strings.TrimSpace(userMsg) == "" {
		return
	}

	r.conversation.Append("user", userMsg)
	r.registry.Broadcast(ctx, r.renderer.UserLine(userMsg))

	reply, err := r.client.Chat(ctx, r.model, r.conversation.Snapshot())
	if err != nil {
		r.deliverError(ctx, err)
		return
	}

	r.conversation.Append("assistant", reply)
	r.replay(ctx, reply)
	r.registry.Broadcast(ctx, r.renderer.ClearInput())
}

// Comment fires a one-shot remark at the chat widget, outside the shared
// conversation. Used for the sassy commentary on todo mutations, menu
// selections and searches; the response is capped at maxCommentWords.
func (r *Responder) Comment(ctx context.Context, prompt string) {
	reply, err := r.client.Chat(ctx, r.model, []ollama.Message{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		r.deliverError(ctx, err)
		return
	}

	r.replay(ctx, limitWords(reply, maxCommentWords))
}

// Poke asks the model for a reaction to being poked and returns the full
// response without replay; the caller renders it directly. A non-200 backend
// answer comes back as its literal error text, mirroring the chat paths.
func (r *Responder) Poke(ctx context.Context) (string, error) {
	reply, err := r.client.Chat(ctx, r.model, []ollama.Message{
		{Role: "system", Content: "You are a sassy Todo List. Respond briefly to being poked."},
		{Role: "user", Content: "You've been poked. React in under 30 words."},
	})
	if err != nil {
		var se *ollama.StatusError
		if errors.As(err, &se) {
			return se.Error(), nil
		}
		return "", err
	}
	return reply, nil
}

// replay delivers text in strictly growing word prefixes (1 word, 2 words,
// ... N words) with a fixed pause between increments, so watchers see a
// left-to-right typing reveal. Each increment goes to the registry snapshot
// taken at send time: a client that disconnects mid-replay silently misses
// the rest.
func (r *Responder) replay(ctx context.Context, text string) {
	words := strings.Fields(text)
	for i := range words {
		partial := strings.Join(words[:i+1], " ")
		r.registry.Broadcast(ctx, r.renderer.AssistantLine(partial))

		select {
		case <-ctx.Done():
			return
		case <-time.After(r.interval):
		}
	}
}

// deliverError turns a backend failure into chat output. Non-200 responses
// are shown to users once, verbatim; transport errors are only logged.
func (r *Responder) deliverError(ctx context.Context, err error) {
	var se *ollama.StatusError
	if errors.As(err, &se) {
		r.registry.Broadcast(ctx, r.renderer.AssistantLine(se.Error()))
		return
	}
	r.logger.Error("chat backend unreachable", "error", err)
}

// limitWords truncates text to at most n whitespace-delimited words.
func limitWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return text
	}
	return strings.Join(words[:n], " ")
}
