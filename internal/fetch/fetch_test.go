package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"scrapeycat/internal/state"
)

func TestGetReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello world"))
	}))
	defer srv.Close()

	c := New(nil)
	body, err := c.Get(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	require.Equal(t, "hello world", body)
}

func TestGetPassesHeaders(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Test")
	}))
	defer srv.Close()

	c := New(nil)
	_, err := c.Get(context.Background(), srv.URL, []state.Header{{Name: "X-Test", Value: "abc"}})
	require.NoError(t, err)
	require.Equal(t, "abc", got)
}

func TestGetFailsOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(nil)
	_, err := c.Get(context.Background(), srv.URL, nil)
	require.Error(t, err)
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, 404, httpErr.StatusCode)
}

func TestGetRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 100))
	}))
	defer srv.Close()

	c := New(nil)
	c.SetMaxBodyBytes(10)
	_, err := c.Get(context.Background(), srv.URL, nil)
	require.Error(t, err)
	var tooLarge *ErrBodyTooLarge
	require.ErrorAs(t, err, &tooLarge)
}
