package oracle

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Policy decides what a failed enrichment yields.
type Policy string

const (
	PolicySentinel Policy = "sentinel"
	PolicySurface  Policy = "surface"
)

func (p Policy) IsValid() bool {
	switch p {
	case PolicySentinel, PolicySurface:
		return true
	default:
		return false
	}
}

// Sentinel is what PolicySentinel returns in place of an error.
func Sentinel() Suggestion {
	return Suggestion{Subtasks: []string{"error placeholder"}, EstimatedTime: "N/A"}
}

// Ticket identifies one enrichment request for a task. Seq grows per task.
type Ticket struct {
	TaskID string
	Seq    uint64
}

type Result struct {
	Ticket     Ticket
	Suggestion Suggestion
	Err        error
}

// Usable reports whether the result carries real subtasks to apply.
func (r Result) Usable() bool {
	if r.Err != nil || isSentinel(r.Suggestion) {
		return false
	}
	for _, s := range r.Suggestion.Subtasks {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

// Enricher runs task analysis requests and tracks which one is the latest
// per task, so late answers to superseded requests can be dropped.
type Enricher struct {
	provider Provider
	policy   Policy
	log      zerolog.Logger

	mu       sync.Mutex
	latest   map[string]uint64
	accepted map[string]uint64
}

func NewEnricher(provider Provider, policy Policy, log zerolog.Logger) *Enricher {
	if !policy.IsValid() {
		policy = PolicySentinel
	}
	return &Enricher{
		provider: provider,
		policy:   policy,
		log:      log,
		latest:   make(map[string]uint64),
		accepted: make(map[string]uint64),
	}
}

func (e *Enricher) Begin(taskID string) Ticket {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.latest[taskID]++
	return Ticket{TaskID: taskID, Seq: e.latest[taskID]}
}

func (e *Enricher) Run(ctx context.Context, ticket Ticket, title, description string) Result {
	suggestion, err := e.provider.AnalyzeTask(ctx, title, description)
	if err != nil {
		e.log.Warn().Err(err).Str("task_id", ticket.TaskID).Msg("task analysis failed")
		if e.policy == PolicySurface {
			return Result{Ticket: ticket, Err: err}
		}
		return Result{Ticket: ticket, Suggestion: Sentinel()}
	}
	return Result{Ticket: ticket, Suggestion: suggestion}
}

// Accept reports whether r answers the newest request for its task. A
// result is accepted at most once.
func (e *Enricher) Accept(r Result) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, seq := r.Ticket.TaskID, r.Ticket.Seq
	if seq == 0 || e.latest[id] != seq || e.accepted[id] == seq {
		return false
	}
	e.accepted[id] = seq
	return true
}

func isSentinel(s Suggestion) bool {
	return len(s.Subtasks) == 1 && s.Subtasks[0] == "error placeholder" && s.EstimatedTime == "N/A"
}
