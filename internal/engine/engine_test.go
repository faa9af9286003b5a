package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"scrapeycat/internal/commands"
	"scrapeycat/internal/fetch"
	"scrapeycat/internal/loader"
)

func writeScript(t *testing.T, dir, name, source string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".scrape"), []byte(source), 0o644))
}

func TestRunSimplePipeline(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "greet", `
		effect("print", {"hello", "world"})
	`)
	ex := New(loader.New([]string{dir}, []string{"${NAME}.scrape"}), nil)

	st, err := ex.Run(0, "greet", nil, nil)
	require.NoError(t, err)
	require.Len(t, st.Effects, 1)
	require.Equal(t, []string{"hello", "world"}, st.Effects[0].Positional)
}

func TestRunSeedsScriptArgsScenarioS5(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "temperature", `
		results = {}
		table.insert(results, "11 °C .. " .. var("location"))
		apply(function(_) return results end)
	`)
	ex := New(loader.New([]string{dir}, []string{"${NAME}.scrape"}), nil)

	st, err := ex.Run(0, "temperature", nil, map[string]string{"location": "Sweden/Stockholm"})
	require.NoError(t, err)
	require.Equal(t, []string{"11 °C .. Sweden/Stockholm"}, st.Results)
}

func TestRunDepthExceeded(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "recurse", `run("recurse")`)
	ex := New(loader.New([]string{dir}, []string{"${NAME}.scrape"}), nil)
	ex.MaxDepth = 2

	_, err := ex.Run(0, "recurse", nil, nil)
	require.Error(t, err)
	var depthErr *commands.DepthExceededError
	require.ErrorAs(t, err, &depthErr)
}

func TestRunScriptNotFound(t *testing.T) {
	ex := New(loader.New([]string{t.TempDir()}, []string{"${NAME}.scrape"}), nil)

	_, err := ex.Run(0, "missing", nil, nil)
	require.Error(t, err)
	var notFound *loader.ErrScriptNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestRunParseError(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "broken", `this is not lua (((`)
	ex := New(loader.New([]string{dir}, []string{"${NAME}.scrape"}), nil)

	_, err := ex.Run(0, "broken", nil, nil)
	require.Error(t, err)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestRunSubScriptAppendsResultsAndEffects(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "child", `
		apply(function(_) return {"child result"} end)
		effect("print", {"child effect"})
	`)
	writeScript(t, dir, "parent", `
		apply(function(_) return {"parent result"} end)
		run("child")
	`)
	ex := New(loader.New([]string{dir}, []string{"${NAME}.scrape"}), nil)

	st, err := ex.Run(0, "parent", nil, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"parent result", "child result"}, st.Results)
	require.Len(t, st.Effects, 1)
}

func TestRunEndToEndWithFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<title><![CDATA[A]]></title><title><![CDATA[B]]></title><title><![CDATA[C]]></title><title><![CDATA[D]]></title>`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	writeScript(t, dir, "bbc", `
		get("`+srv.URL+`")
		extract("(?s)<title>(.+?)</title>")
		drop(2)
		extract("(?s)CDATA\\[(.+?)\\]\\]")
		first()
	`)

	ex := New(loader.New([]string{dir}, []string{"${NAME}.scrape"}), fetch.New(nil))
	st, err := ex.Run(0, "bbc", nil, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"C"}, st.Results)
}

func TestRunContextCancellation(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "noop", `clear()`)
	ex := New(loader.New([]string{dir}, []string{"${NAME}.scrape"}), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ex.RunContext(ctx, 0, "noop", nil, nil)
	require.Error(t, err)
}
