package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func handleChatMenu(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		selected := titleCase(chi.URLParam(r, "chatType"))

		spawnComment(deps, fmt.Sprintf(
			"You selected %s. Briefly respond in character.", selected))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, MenuSummary("chat-summary", selected, chatMenuWidth))
	}
}

func handleActionMenu(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		selected := "Action " + chi.URLParam(r, "actionID")

		spawnComment(deps, fmt.Sprintf(
			"You selected %s. Briefly respond in character.", selected))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, MenuSummary("action-summary", selected, actionMenuWidth))
	}
}

func handleSearch(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.FormValue("nav_input"))
		if query != "" {
			spawnComment(deps, fmt.Sprintf(
				"The user searched for: '%s'. Respond briefly acknowledging the search.", query))
		}
		w.WriteHeader(http.StatusOK)
	}
}

// handlePoke is the one synchronous chat path: the response lands in the
// fragment directly instead of being replayed over the websocket.
func handlePoke(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply, err := deps.Responder.Poke(r.Context())
		if err != nil {
			httpError(w, http.StatusBadGateway, "poking the model: %v", err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, FragmentRenderer{}.AssistantLine(reply))
	}
}
