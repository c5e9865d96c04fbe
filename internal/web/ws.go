package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"
	"golang.org/x/time/rate"
)

// wsMessage is the JSON the htmx ws extension sends for each form submit.
// Extra fields (HEADERS etc.) are ignored.
type wsMessage struct {
	Msg string `json:"msg"`
}

// handleWS upgrades the connection, registers it for broadcasts under a
// fresh uuid, and dispatches each inbound chat message to the responder on
// its own goroutine. Inbound messages are rate limited per connection; the
// registry entry is removed when the read loop ends, however it ends.
func handleWS(deps Deps) http.Handler {
	return websocket.Handler(func(ws *websocket.Conn) {
		id := uuid.New().String()
		deps.Registry.Add(id, func(ctx context.Context, fragment string) error {
			return websocket.Message.Send(ws, fragment)
		})
		defer deps.Registry.Remove(id)
		deps.Logger.Debug("websocket connected", "conn", id)

		limiter := rate.NewLimiter(rate.Every(time.Second), 3)
		for {
			var m wsMessage
			if err := websocket.JSON.Receive(ws, &m); err != nil {
				deps.Logger.Debug("websocket closed", "conn", id, "error", err)
				return
			}
			if strings.TrimSpace(m.Msg) == "" || !limiter.Allow() {
				continue
			}

			msg := m.Msg
			deps.Responder.Spawn(func() {
				deps.Responder.Respond(context.Background(), msg)
			})
		}
	})
}
