package web

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/artemk/todochat/internal/chat"
	"github.com/artemk/todochat/internal/storage"
)

// Deps holds everything the web handlers need.
type Deps struct {
	Store     *storage.Store
	Registry  *chat.Registry
	Responder *chat.Responder
	Logger    *slog.Logger
}

// NewHandler builds the application router: the page, todo CRUD fragments,
// the chat websocket, and the auxiliary chat triggers.
func NewHandler(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Get("/", handlePage(deps))
	r.Get("/health", handleHealth)

	r.Post("/todos", handleCreateTodo(deps))
	r.Post("/todos/import", handleImportTodos(deps))
	r.Post("/todos/{id}/toggle", handleToggleTodo(deps))
	r.Delete("/todos/{id}", handleDeleteTodo(deps))

	r.Post("/search", handleSearch(deps))
	r.Post("/poke", handlePoke(deps))
	r.Get("/chat/{chatType}", handleChatMenu(deps))
	r.Get("/actions/{actionID}", handleActionMenu(deps))
	r.Post("/theme", handleTheme)

	r.Handle("/ws", handleWS(deps))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleTheme exists so the theme switch has somewhere to POST; the actual
// change is client-side.
func handleTheme(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func httpError(w http.ResponseWriter, code int, format string, args ...any) {
	http.Error(w, fmt.Sprintf(format, args...), code)
}
