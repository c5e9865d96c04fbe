package web

import (
	"html/template"
	"net/http"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en" data-theme="dark">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Todo Chat</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/@picocss/pico@2/css/pico.min.css">
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org@1.9.12/dist/ext/ws.js"></script>
<style>
.fade-in { animation: fade-in 0.3s ease-in; }
@keyframes fade-in { from { opacity: 0; } to { opacity: 1; } }
.done { text-decoration: line-through; }
.dropdown { display: inline-block; }
</style>
</head>
<body hx-ext="ws" ws-connect="/ws">
<main class="container">
<nav style="display: flex; align-items: center; gap: 8px; margin-bottom: 20px;">
  <details class="dropdown" id="chat-menu">
    <summary id="chat-summary" style="width: {{.ChatMenuWidth}};">Chat Interface</summary>
    <ul id="chat-menu-list">
      <li><a hx-get="/chat/todo_chat" hx-target="#chat-summary" hx-swap="outerHTML" class="menu-item">Todo Chat</a></li>
      <li><a hx-get="/chat/future_chat_1" hx-target="#chat-summary" hx-swap="outerHTML" class="menu-item">Future Chat 1</a></li>
      <li><a hx-get="/chat/future_chat_2" hx-target="#chat-summary" hx-swap="outerHTML" class="menu-item">Future Chat 2</a></li>
      <li><a hx-get="/chat/future_chat_3" hx-target="#chat-summary" hx-swap="outerHTML" class="menu-item">Future Chat 3</a></li>
    </ul>
  </details>
  <details class="dropdown" id="action-menu">
    <summary id="action-summary" style="width: {{.ActionMenuWidth}};">Actions</summary>
    <ul id="action-menu-list">
      <li><a hx-get="/actions/1" hx-target="#action-summary" hx-swap="outerHTML" class="menu-item">Action 1</a></li>
      <li><a hx-get="/actions/2" hx-target="#action-summary" hx-swap="outerHTML" class="menu-item">Action 2</a></li>
      <li><a hx-get="/actions/3" hx-target="#action-summary" hx-swap="outerHTML" class="menu-item">Action 3</a></li>
      <li><a hx-get="/actions/4" hx-target="#action-summary" hx-swap="outerHTML" class="menu-item">Action 4</a></li>
    </ul>
  </details>
  <input id="nav-input" name="nav_input" placeholder="Search"
    hx-post="/search" hx-trigger="keyup[keyCode==13]" hx-target="#msg-list" hx-swap="innerHTML"
    style="width: 140px;">
</nav>
<div style="display: grid; grid-template-columns: 2fr 1fr; gap: 20px;">
  <article>
    <header>
      <h2>Todo List</h2>
      <form hx-post="/todos" hx-target="#todo-list" hx-swap="beforeend">
        <fieldset role="group">
          <input id="title" name="title" placeholder="Add a todo..." autofocus>
          <button type="submit">Add</button>
        </fieldset>
      </form>
    </header>
    {{.TodoList}}
  </article>
  <article>
    <h2>Chat Interface</h2>
    <div id="msg-list" class="overflow-auto" style="height: 40vh;"></div>
    <footer>
      <form ws-send>
        <fieldset role="group">
          <input id="msg" name="msg" placeholder="Type a message...">
          <button type="submit">Send</button>
        </fieldset>
      </form>
    </footer>
  </article>
</div>
<div style="position: fixed; bottom: 20px; right: 20px; z-index: 1000;">
  <a href="#" hx-post="/poke" hx-target="#msg-list" hx-swap="innerHTML" role="button">Poke Todo List</a>
</div>
</main>
<script>
document.body.addEventListener('htmx:afterSwap', function(evt) {
  if (evt.detail.target.id === 'chat-summary' || evt.detail.target.id === 'action-summary') {
    const details = evt.detail.target.closest('details');
    if (details) {
      details.removeAttribute('open');
      details.blur();
    }
  }
});
</script>
</body>
</html>
`))

type pageData struct {
	TodoList        template.HTML
	ChatMenuWidth   string
	ActionMenuWidth string
}

func handlePage(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		todos, err := deps.Store.ListTodos()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "listing todos: %v", err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := pageData{
			TodoList:        template.HTML(TodoList(todos)),
			ChatMenuWidth:   chatMenuWidth,
			ActionMenuWidth: actionMenuWidth,
		}
		if err := pageTmpl.Execute(w, data); err != nil {
			deps.Logger.Error("rendering page", "error", err)
		}
	}
}
