package web

import (
	"strings"
	"testing"

	"github.com/artemk/todochat/internal/storage"
)

func TestUserLine_EscapesInput(t *testing.T) {
	got := FragmentRenderer{}.UserLine(`<script>alert(1)</script>`)
	if strings.Contains(got, "<script>") {
		t.Errorf("UserLine did not escape markup: %s", got)
	}
	if !strings.Contains(got, "You: ") {
		t.Errorf("UserLine missing label: %s", got)
	}
}

func TestAssistantLine_RendersMarkdown(t *testing.T) {
	got := FragmentRenderer{}.AssistantLine("this is **important**")
	if !strings.Contains(got, "<strong>important</strong>") {
		t.Errorf("AssistantLine did not render markdown: %s", got)
	}
	if !strings.Contains(got, `id="msg-list"`) {
		t.Errorf("AssistantLine missing fragment id: %s", got)
	}
}

func TestClearInput_SwapsOutOfBand(t *testing.T) {
	got := FragmentRenderer{}.ClearInput()
	if !strings.Contains(got, `hx-swap-oob="true"`) {
		t.Errorf("ClearInput missing oob swap: %s", got)
	}
}

func TestTodoItem(t *testing.T) {
	item := TodoItem(storage.Todo{ID: 7, Title: "buy <milk>", Done: true})

	if !strings.Contains(item, `id="todo-7"`) {
		t.Errorf("missing element id: %s", item)
	}
	if !strings.Contains(item, "buy &lt;milk&gt;") {
		t.Errorf("title not escaped: %s", item)
	}
	if !strings.Contains(item, `class="done"`) {
		t.Errorf("done class missing: %s", item)
	}
	if !strings.Contains(item, `hx-delete="/todos/7"`) {
		t.Errorf("delete wiring missing: %s", item)
	}
}

func TestTodoCheckbox(t *testing.T) {
	unchecked := TodoCheckbox(storage.Todo{ID: 1})
	if strings.Contains(unchecked, "checked") {
		t.Errorf("new todo rendered checked: %s", unchecked)
	}

	checked := TodoCheckbox(storage.Todo{ID: 1, Done: true})
	if !strings.Contains(checked, "checked") {
		t.Errorf("done todo rendered unchecked: %s", checked)
	}
}

func TestTitleCase(t *testing.T) {
	if got := titleCase("todo_chat"); got != "Todo Chat" {
		t.Errorf("titleCase(todo_chat) = %q", got)
	}
	if got := titleCase("future_chat_1"); got != "Future Chat 1" {
		t.Errorf("titleCase(future_chat_1) = %q", got)
	}
}
