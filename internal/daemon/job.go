package daemon

import (
	"sync"

	"scrapeycat/internal/state"
)

// Job is one scheduled script invocation, flattened out of a suite's
// config. It owns the rolling dedup snapshot of its previous firing's
// effects.
type Job struct {
	Suite    string
	Name     string
	Script   string
	Args     []string
	Kwargs   map[string]string
	Schedule string
	Dedup    bool

	mu          sync.Mutex
	lastEffects map[string]struct{}
}

// NewJob builds a Job from a parsed JobConfig.
func NewJob(suite string, cfg JobConfig) Job {
	return Job{
		Suite:    suite,
		Name:     cfg.Name,
		Script:   cfg.Script,
		Args:     cfg.Args,
		Kwargs:   cfg.Kwargs,
		Schedule: cfg.Schedule,
		Dedup:    cfg.Dedup,
	}
}

// Label is a human-readable identifier for logging: the job's own
// name if set, otherwise its script name.
func (j *Job) Label() string {
	if j.Name != "" {
		return j.Name
	}
	return j.Script
}

// Filter applies this job's dedup policy to a freshly emitted effect
// list, returning only the effects that should actually be
// dispatched, and records the full emitted set as the new rolling
// snapshot (dedup compares only against the immediately preceding
// firing, per the scheduler's rolling-snapshot redesign — not a
// process-lifetime-cumulative set).
func (j *Job) Filter(emitted []state.Effect) []state.Effect {
	if !j.Dedup {
		return emitted
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	var fresh []state.Effect
	for _, e := range emitted {
		if _, seen := j.lastEffects[e.Key()]; !seen {
			fresh = append(fresh, e)
		}
	}

	next := make(map[string]struct{}, len(emitted))
	for _, e := range emitted {
		next[e.Key()] = struct{}{}
	}
	j.lastEffects = next

	return fresh
}
