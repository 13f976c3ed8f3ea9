// Package agents provides the scripted agents whose output the engine
// streams. Real model backends are external collaborators; these scripts
// stand in for them with deterministic text and tool-call requests.
package agents

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Step is one unit of scripted agent output: either a text segment to
// stream, or a tool call to dispatch.
type Step struct {
	Text string
	Tool string
	Args json.RawMessage
}

// Script describes one agent: its default thread label, token pacing, and
// ordered output steps.
type Script struct {
	AgentID     string
	ThreadLabel string
	Delay       time.Duration
	Steps       []Step
}

// Registry holds the available agent scripts.
type Registry struct {
	mu      sync.RWMutex
	scripts map[string]*Script
}

// NewRegistry creates an empty script registry.
func NewRegistry() *Registry {
	return &Registry{scripts: make(map[string]*Script)}
}

// Register adds a script.
func (r *Registry) Register(s *Script) error {
	if s == nil || s.AgentID == "" {
		return fmt.Errorf("agent id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.scripts[s.AgentID]; exists {
		return fmt.Errorf("agent already registered: %s", s.AgentID)
	}
	r.scripts[s.AgentID] = s
	return nil
}

// Lookup returns the script for an agent id.
func (r *Registry) Lookup(agentID string) (*Script, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scripts[agentID]
	return s, ok
}

// Default returns the registry seeded with the stock adapter scripts.
func Default() *Registry {
	r := NewRegistry()
	for _, s := range []*Script{
		{
			AgentID:     "mastra",
			ThreadLabel: "mastra-thread",
			Delay:       60 * time.Millisecond,
			Steps: []Step{
				{Text: "Mastra adapter active. Executing structured workflow simulation."},
			},
		},
		{
			AgentID:     "langchain",
			ThreadLabel: "langchain-thread",
			Delay:       80 * time.Millisecond,
			Steps: []Step{
				{Text: "LangChain adapter active. Simulating reasoning chain execution."},
			},
		},
		{
			AgentID:     "crewai",
			ThreadLabel: "crewai-thread",
			Delay:       80 * time.Millisecond,
			Steps: []Step{
				{Text: "CrewAI adapter active. Coordinating multiple agents simulation."},
			},
		},
		{
			AgentID:     "scheduler",
			ThreadLabel: "scheduler-thread",
			Delay:       70 * time.Millisecond,
			Steps: []Step{
				{Text: "Let me find a meeting time that works for you."},
				{Tool: "pick_meeting_time", Args: json.RawMessage(`{}`)},
				{Text: "All set."},
			},
		},
		{
			AgentID:     "canvas",
			ThreadLabel: "canvas-thread",
			Delay:       70 * time.Millisecond,
			Steps: []Step{
				{Text: "Updating your task list with a starter plan."},
				{Tool: "update_todo_list", Args: json.RawMessage(`{"todos":[
					{"title":"Research the topic","description":"Collect sources and notes","emoji":"🔍"},
					{"title":"Draft an outline","description":"Structure the main sections","emoji":"📝"},
					{"title":"Review with the team","description":"Share the draft for feedback","emoji":"👥"}
				]}`)},
				{Text: "Your canvas is ready."},
			},
		},
	} {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
	return r
}
