package web

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/russross/blackfriday"

	"github.com/artemk/todochat/internal/storage"
)

// Inline styles carried over from the original page design: chat output is
// matrix green, user lines are yellow.
const (
	matrixStyle = "color: #00ff00; text-shadow: 0 0 5px #00ff00; font-family: 'Courier New', monospace;"
	userStyle   = "color: #ffff00; text-shadow: 0 0 5px #ffff00; font-family: 'Courier New', monospace;"

	chatMenuWidth   = "150px"
	actionMenuWidth = "120px"
)

// FragmentRenderer builds the htmx fragments pushed over the websocket.
// It implements chat.Renderer.
type FragmentRenderer struct{}

// UserLine echoes what the user typed, escaped verbatim.
func (FragmentRenderer) UserLine(text string) string {
	return fmt.Sprintf(`<div id="msg-list" class="fade-in" style=%q>You: %s</div>`,
		userStyle, template.HTMLEscapeString(text))
}

// AssistantLine renders one increment of the typing reveal. Assistant text is
// markdown, so each prefix goes through the renderer again; browsers swap the
// whole fragment per increment, so re-rendering is invisible.
func (FragmentRenderer) AssistantLine(text string) string {
	rendered := strings.TrimSpace(string(blackfriday.MarkdownCommon([]byte(text))))
	return fmt.Sprintf(`<div id="msg-list" class="fade-in" style=%q>Todo App: %s</div>`,
		matrixStyle, rendered)
}

// ClearInput resets the chat input after a reply finishes, out of band.
func (FragmentRenderer) ClearInput() string {
	return `<input id="msg" name="msg" placeholder="Type a message..." value="" hx-swap-oob="true" autofocus>`
}

// TodoItem renders one list entry with its toggle checkbox and delete link.
func TodoItem(t storage.Todo) string {
	tid := fmt.Sprintf("todo-%d", t.ID)
	cls := ""
	if t.Done {
		cls = ` class="done"`
	}
	return fmt.Sprintf(`<li id=%q%s>%s %s | <a href="#" hx-delete="/todos/%d" hx-target="#%s" hx-swap="outerHTML">Delete</a></li>`,
		tid, cls, TodoCheckbox(t), template.HTMLEscapeString(t.Title), t.ID, tid)
}

// TodoCheckbox renders the done toggle; it swaps itself on every click.
func TodoCheckbox(t storage.Todo) string {
	checked := ""
	if t.Done {
		checked = " checked"
	}
	return fmt.Sprintf(`<input type="checkbox"%s hx-post="/todos/%d/toggle" hx-swap="outerHTML">`,
		checked, t.ID)
}

// TodoList renders the whole list, used by the page and the import endpoint.
func TodoList(todos []storage.Todo) string {
	var b strings.Builder
	b.WriteString(`<ul id="todo-list">`)
	for _, t := range todos {
		b.WriteString(TodoItem(t))
	}
	b.WriteString(`</ul>`)
	return b.String()
}

// TodoInput is the add-form input, returned out of band after each insert so
// the field clears and keeps focus.
func TodoInput() string {
	return `<input id="title" name="title" placeholder="Add a todo..." value="" hx-swap-oob="true" autofocus>`
}

// MenuSummary renders the dropdown summary element after a menu selection.
func MenuSummary(id, label, width string) string {
	style := fmt.Sprintf("display: inline-flex; align-items: center; justify-content: center; "+
		"height: 32px; border-radius: 16px; padding: 0 0.6rem; width: %s; "+
		"border: 1px solid var(--pico-muted-border-color);", width)
	return fmt.Sprintf(`<summary id=%q style=%q>%s</summary>`,
		id, style, template.HTMLEscapeString(label))
}

// titleCase turns "todo_chat" into "Todo Chat".
func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
