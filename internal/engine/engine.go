// Package engine is the script executor: it binds the command
// library into a fresh Lua VM per run, seeds script arguments, and
// turns a script name into a final *state.State or an error.
package engine

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"scrapeycat/internal/commands"
	"scrapeycat/internal/loader"
	"scrapeycat/internal/state"
)

// DefaultMaxDepth is the default cap on `run` call-chain depth.
const DefaultMaxDepth = 16

// ParseError wraps a Lua compile failure.
type ParseError struct {
	Script string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %q: %s", e.Script, e.Err.Error())
}

func (e *ParseError) Unwrap() error { return e.Err }

// RuntimeError wraps an uncaught Lua runtime error that carried no
// richer Go error value alongside it.
type RuntimeError struct {
	Script string
	Err    error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error in %q: %s", e.Script, e.Err.Error())
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// Executor is the top-level script runner. It is safe for concurrent
// use: every Run call constructs its own Lua VM and State.
type Executor struct {
	Loader   *loader.Loader
	Fetcher  commands.Fetcher
	MaxDepth int
}

// New constructs an Executor with DefaultMaxDepth.
func New(l *loader.Loader, fetcher commands.Fetcher) *Executor {
	return &Executor{Loader: l, Fetcher: fetcher, MaxDepth: DefaultMaxDepth}
}

// Run resolves name via the loader, evaluates it against a fresh
// State seeded from positional/keyword, and returns the final State.
// parentDepth is the depth of the caller (0 for a top-level
// invocation); the callee's own depth is parentDepth+1.
func (ex *Executor) Run(parentDepth int, name string, positional []string, keyword map[string]string) (*state.State, error) {
	return ex.RunContext(context.Background(), parentDepth, name, positional, keyword)
}

// RunContext is Run with an explicit context, propagated to `get` and
// any transitive `run` calls so cancellation/timeouts reach in-flight
// HTTP requests.
func (ex *Executor) RunContext(ctx context.Context, parentDepth int, name string, positional []string, keyword map[string]string) (*state.State, error) {
	depth := parentDepth + 1
	maxDepth := ex.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if depth > maxDepth {
		return nil, &commands.DepthExceededError{Limit: maxDepth}
	}

	source, err := ex.Loader.Resolve(name)
	if err != nil {
		return nil, err
	}

	st := state.New(depth)
	st.SeedArgs(positional, keyword)

	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	var fatal error
	runner := &depthRunner{ex: ex, ctx: ctx}
	commands.Register(L, ctx, st, ex.Fetcher, runner, &fatal)

	fn, perr := L.LoadString(source)
	if perr != nil {
		return nil, &ParseError{Script: name, Err: perr}
	}

	L.Push(fn)
	if derr := L.PCall(0, lua.MultRet, nil); derr != nil {
		if fatal != nil {
			return nil, fatal
		}
		return nil, &RuntimeError{Script: name, Err: derr}
	}

	return st, nil
}

// depthRunner adapts an *Executor into a commands.Runner, recursing
// through RunContext so a sub-script's `get`/`run` calls still carry
// the caller's context.
type depthRunner struct {
	ex  *Executor
	ctx context.Context
}

func (r *depthRunner) Run(parentDepth int, name string, positional []string, keyword map[string]string) (*state.State, error) {
	return r.ex.RunContext(r.ctx, parentDepth, name, positional, keyword)
}
