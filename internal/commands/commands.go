// Package commands is scrapeycat's DSL command library: the set of
// native functions bound into a fresh *lua.LState per run, each
// closing over a shared *state.State the way vcassist-backend's
// scrapers close over a shared *colly.Collector/*goquery.Document —
// the state itself is never exposed to the script.
package commands

import (
	"context"

	lua "github.com/yuin/gopher-lua"

	"scrapeycat/internal/rxadapt"
	"scrapeycat/internal/state"
	"scrapeycat/internal/subst"
)

// Fetcher is the HTTP dependency `get` consumes. *fetch.Client
// satisfies it.
type Fetcher interface {
	Get(ctx context.Context, url string, headers []state.Header) (string, error)
}

// Runner executes a named sub-script for the `run` command. The
// engine package implements this, closing the loop back through its
// own executor rather than commands importing engine.
type Runner interface {
	Run(parentDepth int, name string, positional []string, keyword map[string]string) (*state.State, error)
}

// set is the receiver every registered native function is a method
// value of; it carries everything a command needs beyond the ambient
// state.
type set struct {
	ctx     context.Context
	st      *state.State
	fetcher Fetcher
	runner  Runner
	fatal   *error
}

// Register binds the full command library into L's global scope,
// closing over st. fatal receives the first command-level error, if
// any, since a raised Lua error only carries a string and the caller
// wants the richer Go error value back.
func Register(L *lua.LState, ctx context.Context, st *state.State, fetcher Fetcher, runner Runner, fatal *error) {
	c := &set{ctx: ctx, st: st, fetcher: fetcher, runner: runner, fatal: fatal}

	fns := map[string]lua.LGFunction{
		"append":        c.append_,
		"prepend":       c.prepend,
		"delete":        c.delete_,
		"retain":        c.retain,
		"discard":       c.discard,
		"extract":       c.extract,
		"map":           c.mapCmd,
		"apply":         c.apply,
		"drop":          c.drop,
		"first":         c.first,
		"clear":         c.clear,
		"store":         c.store,
		"load":          c.load,
		"abortIfEmpty":  c.abortIfEmpty,
		"header":        c.header,
		"clearheaders":  c.clearheaders,
		"get":           c.get,
		"run":           c.run,
		"effect":        c.effect,
		"var":           c.varCmd,
		"list":          c.listCmd,
	}
	for name, fn := range fns {
		L.SetGlobal(name, L.NewFunction(fn))
	}
}

// fail records err as the run's fatal error and raises it into Lua,
// unwinding the rest of the script. Every command that hits a fatal
// condition returns fail's result immediately.
func (c *set) fail(L *lua.LState, err error) int {
	if *c.fatal == nil {
		*c.fatal = err
	}
	L.RaiseError("%s", err.Error())
	return 0
}

func (c *set) append_(L *lua.LState) int {
	if c.st.Aborted {
		return 0
	}
	s := L.CheckString(1)
	for i, r := range c.st.Results {
		c.st.Results[i] = r + s
	}
	return 0
}

func (c *set) prepend(L *lua.LState) int {
	if c.st.Aborted {
		return 0
	}
	s := L.CheckString(1)
	for i, r := range c.st.Results {
		c.st.Results[i] = s + r
	}
	return 0
}

func (c *set) delete_(L *lua.LState) int {
	if c.st.Aborted {
		return 0
	}
	re, err := rxadapt.Compile(L.CheckString(1))
	if err != nil {
		return c.fail(L, err)
	}
	for i, r := range c.st.Results {
		c.st.Results[i] = rxadapt.DeleteAll(re, r)
	}
	return 0
}

func (c *set) retain(L *lua.LState) int {
	if c.st.Aborted {
		return 0
	}
	re, err := rxadapt.Compile(L.CheckString(1))
	if err != nil {
		return c.fail(L, err)
	}
	kept := c.st.Results[:0:0]
	for _, r := range c.st.Results {
		if re.MatchString(r) {
			kept = append(kept, r)
		}
	}
	c.st.Results = kept
	return 0
}

func (c *set) discard(L *lua.LState) int {
	if c.st.Aborted {
		return 0
	}
	re, err := rxadapt.Compile(L.CheckString(1))
	if err != nil {
		return c.fail(L, err)
	}
	kept := c.st.Results[:0:0]
	for _, r := range c.st.Results {
		if !re.MatchString(r) {
			kept = append(kept, r)
		}
	}
	c.st.Results = kept
	return 0
}

func (c *set) extract(L *lua.LState) int {
	if c.st.Aborted {
		return 0
	}
	re, err := rxadapt.Compile(L.CheckString(1))
	if err != nil {
		return c.fail(L, err)
	}
	var next []string
	for _, r := range c.st.Results {
		next = append(next, rxadapt.ExtractAll(re, r)...)
	}
	c.st.Results = next
	return 0
}

func (c *set) mapCmd(L *lua.LState) int {
	if c.st.Aborted {
		return 0
	}
	fn := L.CheckFunction(1)
	for i, r := range c.st.Results {
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LString(r)); err != nil {
			return c.fail(L, &CallbackError{Command: "map", Err: err})
		}
		ret := L.Get(-1)
		L.Pop(1)
		s, ok := ret.(lua.LString)
		if !ok {
			return c.fail(L, &TypeError{Command: "map", Detail: "callback must return a string"})
		}
		c.st.Results[i] = string(s)
	}
	return 0
}

func (c *set) apply(L *lua.LState) int {
	if c.st.Aborted {
		return 0
	}
	fn := L.CheckFunction(1)
	arg := stringsToTable(L, c.st.Results)
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, arg); err != nil {
		return c.fail(L, &CallbackError{Command: "apply", Err: err})
	}
	ret := L.Get(-1)
	L.Pop(1)
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return c.fail(L, &TypeError{Command: "apply", Detail: "callback must return a table of strings"})
	}
	next, ok := tableToStrings(tbl)
	if !ok {
		return c.fail(L, &TypeError{Command: "apply", Detail: "callback must return a table of strings"})
	}
	c.st.Results = next
	return 0
}

func (c *set) drop(L *lua.LState) int {
	if c.st.Aborted {
		return 0
	}
	n := L.CheckInt(1)
	if n < 0 {
		n = 0
	}
	if n >= len(c.st.Results) {
		c.st.Results = nil
		return 0
	}
	c.st.Results = c.st.Results[n:]
	return 0
}

func (c *set) first(L *lua.LState) int {
	if c.st.Aborted {
		return 0
	}
	if len(c.st.Results) > 1 {
		c.st.Results = c.st.Results[:1]
	}
	return 0
}

func (c *set) clear(L *lua.LState) int {
	if c.st.Aborted {
		return 0
	}
	c.st.Results = nil
	return 0
}

func (c *set) store(L *lua.LState) int {
	if c.st.Aborted {
		return 0
	}
	name := L.CheckString(1)
	snapshot := make([]string, len(c.st.Results))
	copy(snapshot, c.st.Results)
	c.st.Variables[name] = snapshot
	return 0
}

func (c *set) load(L *lua.LState) int {
	if c.st.Aborted {
		return 0
	}
	name := L.CheckString(1)
	values, ok := c.st.Variables[name]
	if !ok {
		return c.fail(L, &MissingVariableError{Name: name})
	}
	c.st.Results = append(c.st.Results, values...)
	return 0
}

func (c *set) abortIfEmpty(L *lua.LState) int {
	if c.st.Aborted {
		return 0
	}
	if len(c.st.Results) == 0 {
		c.st.Aborted = true
	}
	return 0
}

func (c *set) header(L *lua.LState) int {
	if c.st.Aborted {
		return 0
	}
	name := L.CheckString(1)
	value, err := subst.Expand(L.CheckString(2), c.st.Variables)
	if err != nil {
		return c.fail(L, err)
	}
	c.st.Headers = append(c.st.Headers, state.Header{Name: name, Value: value})
	return 0
}

func (c *set) clearheaders(L *lua.LState) int {
	if c.st.Aborted {
		return 0
	}
	c.st.Headers = nil
	return 0
}

func (c *set) get(L *lua.LState) int {
	if c.st.Aborted {
		return 0
	}
	url, err := subst.Expand(L.CheckString(1), c.st.Variables)
	if err != nil {
		return c.fail(L, err)
	}
	body, err := c.fetcher.Get(c.ctx, url, c.st.Headers)
	if err != nil {
		return c.fail(L, err)
	}
	c.st.Results = append(c.st.Results, body)
	return 0
}

func (c *set) run(L *lua.LState) int {
	if c.st.Aborted {
		return 0
	}
	name := L.CheckString(1)
	positional, keyword := splitArgsTable(optTable(L, 2))

	positional, err := subst.ExpandAll(positional, c.st.Variables)
	if err != nil {
		return c.fail(L, err)
	}
	keyword, err = subst.ExpandMap(keyword, c.st.Variables)
	if err != nil {
		return c.fail(L, err)
	}

	sub, err := c.runner.Run(c.st.Depth, name, positional, keyword)
	if err != nil {
		return c.fail(L, err)
	}

	c.st.Results = append(c.st.Results, sub.Results...)
	c.st.Effects = append(c.st.Effects, sub.Effects...)
	return 0
}

func (c *set) effect(L *lua.LState) int {
	if c.st.Aborted {
		return 0
	}
	name := L.CheckString(1)
	positional, keyword := splitArgsTable(optTable(L, 2))

	if len(positional) == 0 {
		positional = append([]string(nil), c.st.Results...)
	}

	positional, err := subst.ExpandAll(positional, c.st.Variables)
	if err != nil {
		return c.fail(L, err)
	}
	keyword, err = subst.ExpandMap(keyword, c.st.Variables)
	if err != nil {
		return c.fail(L, err)
	}

	c.st.Effects = append(c.st.Effects, state.Effect{
		Name:       name,
		Positional: positional,
		Keyword:    keyword,
	})
	return 0
}

func (c *set) varCmd(L *lua.LState) int {
	if c.st.Aborted {
		L.Push(lua.LString(""))
		return 1
	}
	name := L.CheckString(1)
	values, ok := c.st.Variables[name]
	if !ok {
		return c.fail(L, &MissingVariableError{Name: name})
	}
	L.Push(lua.LString(state.JoinVar(values)))
	return 1
}

func (c *set) listCmd(L *lua.LState) int {
	if c.st.Aborted {
		L.Push(L.CreateTable(0, 0))
		return 1
	}
	name := L.CheckString(1)
	values, ok := c.st.Variables[name]
	if !ok {
		return c.fail(L, &MissingVariableError{Name: name})
	}
	L.Push(stringsToTable(L, values))
	return 1
}
