package state

import (
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/domain"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/ident"
)

// AddTodo appends a fresh pending item with the canvas defaults.
func AddTodo() Mutation {
	return func(todos []domain.TodoItem) []domain.TodoItem {
		return append(todos, domain.TodoItem{
			ID:          ident.NewTodoID(),
			Title:       "New Todo",
			Description: "Add a description",
			Emoji:       "✅",
			Status:      domain.TodoStatusPending,
		})
	}
}

// ToggleTodo flips one item between pending and completed.
func ToggleTodo(id string) Mutation {
	return func(todos []domain.TodoItem) []domain.TodoItem {
		for i, t := range todos {
			if t.ID != id {
				continue
			}
			if t.Status == domain.TodoStatusCompleted {
				todos[i].Status = domain.TodoStatusPending
			} else {
				todos[i].Status = domain.TodoStatusCompleted
			}
		}
		return todos
	}
}

// DeleteTodo removes one item.
func DeleteTodo(id string) Mutation {
	return func(todos []domain.TodoItem) []domain.TodoItem {
		out := todos[:0]
		for _, t := range todos {
			if t.ID != id {
				out = append(out, t)
			}
		}
		return out
	}
}

// EditTitle replaces one item's title.
func EditTitle(id, title string) Mutation {
	return func(todos []domain.TodoItem) []domain.TodoItem {
		for i, t := range todos {
			if t.ID == id {
				todos[i].Title = title
			}
		}
		return todos
	}
}

// EditDescription replaces one item's description.
func EditDescription(id, description string) Mutation {
	return func(todos []domain.TodoItem) []domain.TodoItem {
		for i, t := range todos {
			if t.ID == id {
				todos[i].Description = description
			}
		}
		return todos
	}
}

// ReplaceTodos swaps in a whole new task list. Agent-side tool calls use it
// to land a complete plan in one write.
func ReplaceTodos(todos []domain.TodoItem) Mutation {
	return func([]domain.TodoItem) []domain.TodoItem {
		return todos
	}
}
