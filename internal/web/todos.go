package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/artemk/todochat/internal/storage"
)

// spawnComment fires a background sassy remark about a todo mutation. The
// page response never waits on the model.
func spawnComment(deps Deps, prompt string) {
	deps.Responder.Spawn(func() {
		deps.Responder.Comment(context.Background(), prompt)
	})
}

func handleCreateTodo(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title := strings.TrimSpace(r.FormValue("title"))
		if title == "" {
			httpError(w, http.StatusBadRequest, "title is required")
			return
		}

		todo, err := deps.Store.InsertTodo(title)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "inserting todo: %v", err)
			return
		}

		spawnComment(deps, fmt.Sprintf(
			"New todo: '%s'. Brief, sassy comment or advice in under 30 words.", todo.Title))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, TodoItem(todo), TodoInput())
	}
}

func handleToggleTodo(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid todo id")
			return
		}

		before, err := deps.Store.GetTodo(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "todo %d not found", id)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "loading todo: %v", err)
			return
		}

		updated, err := deps.Store.ToggleTodo(id)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "toggling todo: %v", err)
			return
		}

		spawnComment(deps, fmt.Sprintf(
			"Todo '%s' toggled from %s to %s. Brief, sassy comment in under 30 words.",
			updated.Title, doneLabel(before.Done), doneLabel(updated.Done)))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, TodoCheckbox(updated))
	}
}

func handleDeleteTodo(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid todo id")
			return
		}

		// Fetch first so the comment can name what was deleted.
		todo, err := deps.Store.GetTodo(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "todo %d not found", id)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "loading todo: %v", err)
			return
		}

		if err := deps.Store.DeleteTodo(id); err != nil {
			httpError(w, http.StatusInternalServerError, "deleting todo: %v", err)
			return
		}

		spawnComment(deps, fmt.Sprintf(
			"Todo '%s' deleted. Brief, sassy reaction in under 30 words.", todo.Title))

		// Empty body removes the element from the DOM.
		w.WriteHeader(http.StatusOK)
	}
}

func doneLabel(done bool) string {
	if done {
		return "Done"
	}
	return "Not Done"
}
