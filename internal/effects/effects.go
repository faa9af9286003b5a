// Package effects implements the two built-in effect handlers the
// driver dispatches against a script run's queued Effects: print and
// notify. The engine only ever produces Effect records; dispatching
// them into something observable is deliberately kept outside
// internal/engine, mirroring how vcassist-backend keeps its scraper
// packages ignorant of where their results ultimately get rendered.
package effects

import (
	"fmt"
	"io"
	"strings"

	"github.com/gen2brain/beeep"

	"scrapeycat/internal/state"
)

// DefaultEOL is print's line terminator when no `end` keyword is
// given.
const DefaultEOL = "\n"

// UnknownKeywordError is reported (non-fatally) when an effect carries
// a keyword its handler doesn't recognize.
type UnknownKeywordError struct {
	Effect  string
	Keyword string
}

func (e *UnknownKeywordError) Error() string {
	return fmt.Sprintf("%s: unrecognized keyword %q", e.Effect, e.Keyword)
}

// Dispatcher owns the output stream print writes to and reports
// handler-level problems that don't justify failing the run (the run
// already succeeded by the time effects dispatch).
type Dispatcher struct {
	Out  io.Writer
	Warn func(err error)
}

var printKeywords = map[string]struct{}{"end": {}}

// Print joins e's positional args with single spaces and writes them
// terminated by the `end` keyword's value (default "\n").
func (d *Dispatcher) Print(e state.Effect) error {
	d.warnUnknown(e, printKeywords)

	eol := DefaultEOL
	if v, ok := e.Keyword["end"]; ok {
		eol = v
	}

	_, err := fmt.Fprint(d.Out, strings.Join(e.Positional, " ")+eol)
	return err
}

// notifyKeywords intentionally omits `sound`: beeep's cross-platform
// Notify has no parameter for a named notification sound (unlike the
// original source's libnotify binding, which passed one straight
// through via `sound_name`), so there is nothing to wire it to.
var notifyKeywords = map[string]struct{}{
	"title": {}, "body": {}, "appname": {}, "icon": {},
}

// Notify sends a desktop notification via beeep. body defaults to the
// space-joined positional args unless overridden by the `body`
// keyword; appname sets beeep's global AppName for the duration of
// the call, since beeep takes it as package state rather than a
// per-notification argument.
func (d *Dispatcher) Notify(e state.Effect) error {
	d.warnUnknown(e, notifyKeywords)

	title := e.Keyword["title"]
	if title == "" {
		title = "scrapeycat"
	}

	body := strings.Join(e.Positional, " ")
	if v, ok := e.Keyword["body"]; ok {
		body = v
	}

	icon := e.Keyword["icon"]

	if appname, ok := e.Keyword["appname"]; ok {
		prev := beeep.AppName
		beeep.AppName = appname
		defer func() { beeep.AppName = prev }()
	}

	return beeep.Notify(title, body, icon)
}

func (d *Dispatcher) warnUnknown(e state.Effect, known map[string]struct{}) {
	if d.Warn == nil {
		return
	}
	for k := range e.Keyword {
		if _, ok := known[k]; !ok {
			d.Warn(&UnknownKeywordError{Effect: e.Name, Keyword: k})
		}
	}
}

// Dispatch routes e to its handler by name. An effect with an
// unregistered name is reported via Warn and otherwise ignored — the
// engine never validates effect names, so an unknown one is a script
// authoring mistake, not a fatal run error.
func (d *Dispatcher) Dispatch(e state.Effect) error {
	switch e.Name {
	case "print":
		return d.Print(e)
	case "notify":
		return d.Notify(e)
	default:
		if d.Warn != nil {
			d.Warn(fmt.Errorf("effect: unknown effect %q", e.Name))
		}
		return nil
	}
}

// DispatchAll dispatches every effect in order, stopping at the first
// handler error.
func (d *Dispatcher) DispatchAll(effects []state.Effect) error {
	for _, e := range effects {
		if err := d.Dispatch(e); err != nil {
			return err
		}
	}
	return nil
}
