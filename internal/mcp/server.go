package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/artemk/todochat/internal/chat"
	"github.com/artemk/todochat/internal/storage"
)

// Deps holds dependencies for the MCP server.
type Deps struct {
	Store     *storage.Store
	Responder *chat.Responder // optional; if nil, todo_comment returns an error
}

// NewServer creates an MCP server exposing the todo list as tools, so agents
// can work the same list the browser shows. Mutations made here trigger the
// same sassy commentary connected browsers see.
func NewServer(deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"todochat",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("todochat — a todo list with a sassy AI chat attached."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("todo_add",
			mcp.WithDescription("Add a new todo item to the list."),
			mcp.WithString("title", mcp.Description("The todo text"), mcp.Required()),
		),
		mcpAddTodo(deps),
	)

	s.AddTool(
		mcp.NewTool("todo_list",
			mcp.WithDescription("List all todo items as JSON."),
		),
		mcpListTodos(deps),
	)

	s.AddTool(
		mcp.NewTool("todo_toggle",
			mcp.WithDescription("Flip the done state of a todo item."),
			mcp.WithNumber("id", mcp.Description("The todo ID"), mcp.Required()),
		),
		mcpToggleTodo(deps),
	)

	s.AddTool(
		mcp.NewTool("todo_delete",
			mcp.WithDescription("Delete a todo item."),
			mcp.WithNumber("id", mcp.Description("The todo ID"), mcp.Required()),
		),
		mcpDeleteTodo(deps),
	)

	s.AddTool(
		mcp.NewTool("todo_comment",
			mcp.WithDescription("Ask the todo app for a remark about a prompt; the reply is also broadcast to connected browsers."),
			mcp.WithString("prompt", mcp.Description("What to remark on"), mcp.Required()),
		),
		mcpComment(deps),
	)

	return s
}

func mcpAddTodo(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := req.RequireString("title")
		if err != nil {
			return mcpError("title is required"), nil
		}

		todo, err := deps.Store.InsertTodo(title)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to insert: %v", err)), nil
		}

		if deps.Responder != nil {
			prompt := fmt.Sprintf("New todo: '%s'. Brief, sassy comment or advice in under 30 words.", todo.Title)
			deps.Responder.Spawn(func() {
				deps.Responder.Comment(context.Background(), prompt)
			})
		}

		return mcpText(fmt.Sprintf("Added todo %d: %s", todo.ID, todo.Title)), nil
	}
}

func mcpListTodos(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		todos, err := deps.Store.ListTodos()
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list: %v", err)), nil
		}

		type todoResult struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
			Done  bool   `json:"done"`
		}
		results := make([]todoResult, len(todos))
		for i, t := range todos {
			results[i] = todoResult{ID: t.ID, Title: t.Title, Done: t.Done}
		}

		b, err := json.Marshal(results)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpToggleTodo(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireInt("id")
		if err != nil {
			return mcpError("id is required"), nil
		}

		todo, err := deps.Store.ToggleTodo(int64(id))
		if errors.Is(err, storage.ErrNotFound) {
			return mcpError(fmt.Sprintf("todo %d not found", id)), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to toggle: %v", err)), nil
		}

		state := "not done"
		if todo.Done {
			state = "done"
		}
		return mcpText(fmt.Sprintf("Todo %d (%s) is now %s", todo.ID, todo.Title, state)), nil
	}
}

func mcpDeleteTodo(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireInt("id")
		if err != nil {
			return mcpError("id is required"), nil
		}

		if err := deps.Store.DeleteTodo(int64(id)); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return mcpError(fmt.Sprintf("todo %d not found", id)), nil
			}
			return mcpError(fmt.Sprintf("failed to delete: %v", err)), nil
		}

		return mcpText(fmt.Sprintf("Deleted todo %d", id)), nil
	}
}

func mcpComment(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if deps.Responder == nil {
			return mcpError("commentary not available: no model configured"), nil
		}

		prompt, err := req.RequireString("prompt")
		if err != nil {
			return mcpError("prompt is required"), nil
		}

		prompt = fmt.Sprintf("%s. Brief, sassy comment in under 30 words.", prompt)
		deps.Responder.Spawn(func() {
			deps.Responder.Comment(context.Background(), prompt)
		})

		return mcpText("Comment queued for broadcast"), nil
	}
}

func mcpText(s string) *mcp.CallToolResult {
	return mcp.NewToolResultText(s)
}

func mcpError(s string) *mcp.CallToolResult {
	return mcp.NewToolResultError(s)
}
