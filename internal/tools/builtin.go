package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ishann-vaidya/AG-UI-research-spike/internal/domain"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/ident"
	"github.com/ishann-vaidya/AG-UI-research-spike/internal/state"
)

// TimeSlot is one proposed meeting time offered by the scheduler tool.
type TimeSlot struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Duration string `json:"duration,omitempty"`
}

// DefaultTimeSlots are offered when the agent does not propose its own.
var DefaultTimeSlots = []TimeSlot{
	{Date: "Tomorrow", Time: "2:00 PM", Duration: "30 min"},
	{Date: "Friday", Time: "10:00 AM", Duration: "30 min"},
	{Date: "Next Monday", Time: "3:00 PM", Duration: "30 min"},
}

// DeclineMeetingText is recorded when the human declines every offered slot.
const DeclineMeetingText = "The user declined all proposed meeting times. Please suggest alternative times or ask for their availability."

type meetingArgs struct {
	Title     string     `json:"title,omitempty"`
	TimeSlots []TimeSlot `json:"timeSlots,omitempty"`
}

type meetingResolution struct {
	// Slot is the 1-based index of the accepted slot.
	Slot int `json:"slot"`
}

// NewMeetingTimePicker returns the human-gated scheduler tool. The run
// suspends until the human accepts one slot or declines them all.
func NewMeetingTimePicker() *Handler {
	return &Handler{
		Name:             "pick_meeting_time",
		RequiresApproval: true,
		Validate: func(args json.RawMessage) error {
			if len(args) == 0 {
				return nil
			}
			var a meetingArgs
			if err := json.Unmarshal(args, &a); err != nil {
				return fmt.Errorf("invalid meeting args: %w", err)
			}
			return nil
		},
		Render: func(args json.RawMessage) (json.RawMessage, error) {
			a := meetingArgs{}
			if len(args) > 0 {
				if err := json.Unmarshal(args, &a); err != nil {
					return nil, fmt.Errorf("invalid meeting args: %w", err)
				}
			}
			if a.Title == "" {
				a.Title = "Schedule a Meeting"
			}
			if len(a.TimeSlots) == 0 {
				a.TimeSlots = DefaultTimeSlots
			}
			return json.Marshal(a)
		},
		Resolve: func(inv Invocation, resolution json.RawMessage) (json.RawMessage, error) {
			var r meetingResolution
			if err := json.Unmarshal(resolution, &r); err != nil {
				return nil, fmt.Errorf("invalid meeting resolution: %w", err)
			}

			a := meetingArgs{}
			if len(inv.Args) > 0 {
				_ = json.Unmarshal(inv.Args, &a)
			}
			slots := a.TimeSlots
			if len(slots) == 0 {
				slots = DefaultTimeSlots
			}
			if r.Slot < 1 || r.Slot > len(slots) {
				return nil, fmt.Errorf("slot %d out of range 1..%d", r.Slot, len(slots))
			}

			slot := slots[r.Slot-1]
			text := fmt.Sprintf("Meeting scheduled for %s at %s", slot.Date, slot.Time)
			if slot.Duration != "" {
				text += fmt.Sprintf(" (%s)", slot.Duration)
			}
			text += "."
			return json.Marshal(map[string]string{"message": text})
		},
		Decline: func() json.RawMessage {
			out, _ := json.Marshal(map[string]string{"message": DeclineMeetingText})
			return out
		},
	}
}

type todoListArgs struct {
	Todos []struct {
		Title       string `json:"title"`
		Description string `json:"description,omitempty"`
		Emoji       string `json:"emoji,omitempty"`
		Status      string `json:"status,omitempty"`
	} `json:"todos"`
}

// NewUpdateTodoList returns the agent-side canvas write tool. It lands the
// whole plan through the store's versioned write path, retrying once on a
// conflicting interface edit.
func NewUpdateTodoList(store *state.Store) *Handler {
	return &Handler{
		Name: "update_todo_list",
		Validate: func(args json.RawMessage) error {
			var a todoListArgs
			if err := json.Unmarshal(args, &a); err != nil {
				return fmt.Errorf("invalid todo list args: %w", err)
			}
			if a.Todos == nil {
				return fmt.Errorf("todos is required")
			}
			for i, t := range a.Todos {
				if t.Title == "" {
					return fmt.Errorf("todos[%d].title is required", i)
				}
			}
			return nil
		},
		Execute: func(ctx context.Context, inv Invocation) (json.RawMessage, error) {
			var a todoListArgs
			if err := json.Unmarshal(inv.Args, &a); err != nil {
				return nil, fmt.Errorf("invalid todo list args: %w", err)
			}

			todos := make([]domain.TodoItem, 0, len(a.Todos))
			for _, t := range a.Todos {
				status := domain.TodoStatus(t.Status)
				if status != domain.TodoStatusCompleted {
					status = domain.TodoStatusPending
				}
				emoji := t.Emoji
				if emoji == "" {
					emoji = "✅"
				}
				todos = append(todos, domain.TodoItem{
					ID:          ident.NewTodoID(),
					Title:       t.Title,
					Description: t.Description,
					Emoji:       emoji,
					Status:      status,
				})
			}

			// Read-modify-write; one retry absorbs a concurrent user edit.
			var st domain.SharedState
			for attempt := 0; attempt < 2; attempt++ {
				cur := store.Read(ctx, inv.ThreadID)
				var err error
				st, err = store.Write(ctx, inv.ThreadID, cur.Version, state.ReplaceTodos(todos))
				if err == nil {
					break
				}
				if attempt == 1 {
					return nil, err
				}
			}
			return json.Marshal(map[string]any{"version": st.Version, "count": len(st.Todos)})
		},
	}
}

type chartArgs struct {
	Title string `json:"title,omitempty"`
	Data  []struct {
		Label string  `json:"label"`
		Value float64 `json:"value"`
	} `json:"data"`
}

func newChartHandler(name, kind string) *Handler {
	return &Handler{
		Name: name,
		Validate: func(args json.RawMessage) error {
			var a chartArgs
			if err := json.Unmarshal(args, &a); err != nil {
				return fmt.Errorf("invalid chart args: %w", err)
			}
			if len(a.Data) == 0 {
				return fmt.Errorf("data is required")
			}
			return nil
		},
		Execute: func(ctx context.Context, inv Invocation) (json.RawMessage, error) {
			// Rendering happens on the interface side; the resolution just
			// acknowledges the chart was handed off.
			return json.Marshal(map[string]any{"rendered": true, "chart": kind})
		},
	}
}

// NewBarChart returns the render-only bar chart tool.
func NewBarChart() *Handler { return newChartHandler("render_bar_chart", "bar") }

// NewPieChart returns the render-only pie chart tool.
func NewPieChart() *Handler { return newChartHandler("render_pie_chart", "pie") }
