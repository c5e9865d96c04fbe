package web

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	maxImportBodySize = 10 << 20 // 10MB
	maxImportedTodos  = 200
)

// handleImportTodos turns an uploaded PDF checklist into todos, one per
// non-empty text line, and returns the refreshed list fragment.
func handleImportTodos(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxImportBodySize)
		defer r.Body.Close()

		file, header, err := r.FormFile("file")
		if err != nil {
			httpError(w, http.StatusBadRequest, "file upload is required: %v", err)
			return
		}
		defer file.Close()

		reader, err := pdf.NewReader(file, header.Size)
		if err != nil {
			httpError(w, http.StatusBadRequest, "parsing PDF: %v", err)
			return
		}

		plain, err := reader.GetPlainText()
		if err != nil {
			httpError(w, http.StatusBadRequest, "extracting text: %v", err)
			return
		}
		text, err := io.ReadAll(plain)
		if err != nil {
			httpError(w, http.StatusBadRequest, "reading text: %v", err)
			return
		}

		imported := 0
		for _, line := range strings.Split(string(text), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if imported >= maxImportedTodos {
				break
			}
			if _, err := deps.Store.InsertTodo(line); err != nil {
				httpError(w, http.StatusInternalServerError, "inserting todo: %v", err)
				return
			}
			imported++
		}

		if imported > 0 {
			spawnComment(deps, fmt.Sprintf(
				"%d todos just got imported from a PDF named '%s'. Brief, sassy reaction in under 30 words.",
				imported, header.Filename))
		}

		todos, err := deps.Store.ListTodos()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "listing todos: %v", err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, TodoList(todos))
	}
}
