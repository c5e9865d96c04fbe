package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/websocket"

	"github.com/artemk/todochat/internal/chat"
	"github.com/artemk/todochat/internal/ollama"
	"github.com/artemk/todochat/internal/storage"
)

// stubChat answers every backend call with a canned reply.
type stubChat struct {
	reply string
}

func (s stubChat) Chat(ctx context.Context, model string, messages []ollama.Message) (string, error) {
	return s.reply, nil
}

func newTestServer(t *testing.T, reply string) (*httptest.Server, Deps) {
	t.Helper()

	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	registry := chat.NewRegistry()
	responder := chat.NewResponder(stubChat{reply: reply}, "llama3.1:latest", registry, FragmentRenderer{}, time.Nanosecond)

	deps := Deps{
		Store:     store,
		Registry:  registry,
		Responder: responder,
		Logger:    slog.Default(),
	}
	srv := httptest.NewServer(NewHandler(deps))
	t.Cleanup(srv.Close)
	return srv, deps
}

func postForm(t *testing.T, srv *httptest.Server, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := srv.Client().PostForm(srv.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp, string(body)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, "ok")

	resp, err := srv.Client().Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestPage(t *testing.T) {
	srv, deps := newTestServer(t, "ok")
	deps.Store.InsertTodo("water plants")

	resp, err := srv.Client().Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	page := string(body)
	for _, want := range []string{"Todo List", "Chat Interface", "water plants", `ws-connect="/ws"`} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestCreateTodo(t *testing.T) {
	srv, deps := newTestServer(t, "sassy")

	resp, body := postForm(t, srv, "/todos", url.Values{"title": {"buy milk"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "buy milk") {
		t.Errorf("fragment missing title: %s", body)
	}
	if !strings.Contains(body, `hx-swap-oob="true"`) {
		t.Errorf("fragment missing cleared input: %s", body)
	}

	n, err := deps.Store.CountTodos()
	if err != nil {
		t.Fatalf("CountTodos: %v", err)
	}
	if n != 1 {
		t.Errorf("CountTodos = %d, want 1", n)
	}
	deps.Responder.Wait()
}

func TestCreateTodo_MissingTitle(t *testing.T) {
	srv, _ := newTestServer(t, "sassy")

	resp, _ := postForm(t, srv, "/todos", url.Values{"title": {"  "}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCreateTodo_BroadcastsComment(t *testing.T) {
	srv, deps := newTestServer(t, "not bad")

	delivered := make(chan string, 16)
	deps.Registry.Add("watcher", func(ctx context.Context, fragment string) error {
		delivered <- fragment
		return nil
	})

	postForm(t, srv, "/todos", url.Values{"title": {"buy milk"}})
	deps.Responder.Wait()
	close(delivered)

	var fragments []string
	for f := range delivered {
		fragments = append(fragments, f)
	}
	// "not bad" replays as two increments.
	if len(fragments) != 2 {
		t.Fatalf("watcher got %d fragments %v, want 2", len(fragments), fragments)
	}
	if !strings.Contains(fragments[1], "not bad") {
		t.Errorf("final increment = %q", fragments[1])
	}
}

func TestToggleTodo(t *testing.T) {
	srv, deps := newTestServer(t, "sassy")
	todo, _ := deps.Store.InsertTodo("water plants")

	resp, body := postForm(t, srv, "/todos/1/toggle", url.Values{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "checked") {
		t.Errorf("checkbox fragment not checked: %s", body)
	}

	got, _ := deps.Store.GetTodo(todo.ID)
	if !got.Done {
		t.Error("todo not toggled in store")
	}
	deps.Responder.Wait()
}

func TestToggleTodo_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, "sassy")

	resp, _ := postForm(t, srv, "/todos/99/toggle", url.Values{})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestDeleteTodo(t *testing.T) {
	srv, deps := newTestServer(t, "sassy")
	todo, _ := deps.Store.InsertTodo("old chore")

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/todos/1", nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	if _, err := deps.Store.GetTodo(todo.ID); err == nil {
		t.Error("todo still present after delete")
	}
	deps.Responder.Wait()
}

func TestPoke(t *testing.T) {
	srv, _ := newTestServer(t, "Ouch. Rude.")

	resp, body := postForm(t, srv, "/poke", url.Values{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "Ouch. Rude.") {
		t.Errorf("poke fragment = %s", body)
	}
	if !strings.Contains(body, "Todo App:") {
		t.Errorf("poke fragment missing label: %s", body)
	}
}

func TestChatMenu(t *testing.T) {
	srv, deps := newTestServer(t, "sassy")

	resp, err := srv.Client().Get(srv.URL + "/chat/todo_chat")
	if err != nil {
		t.Fatalf("GET /chat/todo_chat: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), "Todo Chat") {
		t.Errorf("summary fragment = %s", body)
	}
	deps.Responder.Wait()
}

func TestSearch(t *testing.T) {
	srv, deps := newTestServer(t, "sassy")

	resp, _ := postForm(t, srv, "/search", url.Values{"nav_input": {"milk"}})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	deps.Responder.Wait()
}

func TestWS_ChatRoundTrip(t *testing.T) {
	srv, deps := newTestServer(t, "hi there")

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	if err := websocket.JSON.Send(conn, map[string]string{"msg": "hello"}); err != nil {
		t.Fatalf("sending message: %v", err)
	}

	// Expect the user echo, two assistant increments, then the input clear.
	want := []string{"You: hello", "hi", "hi there", "hx-swap-oob"}
	for i, substr := range want {
		var frame string
		if err := websocket.Message.Receive(conn, &frame); err != nil {
			t.Fatalf("receiving frame %d: %v", i, err)
		}
		if !strings.Contains(frame, substr) {
			t.Errorf("frame %d = %q, want substring %q", i, frame, substr)
		}
	}

	conn.Close()
	deps.Responder.Wait()
}
