package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Login(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/auth/login/", r.URL.Path)
			assert.Empty(t, r.Header.Get("Authorization"))

			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "alice", req["username"])
			assert.Equal(t, "secret1", req["password"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"token":"tok-abc"}`))
		}))
		defer server.Close()

		token, err := NewClient(server.URL).Login(ctx, "alice", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "tok-abc", token)
	})

	t.Run("server message surfaces", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
		}))
		defer server.Close()

		_, err := NewClient(server.URL).Login(ctx, "alice", "secret1")
		require.EqualError(t, err, "Invalid credentials")
	})

	t.Run("generic fallback on opaque failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`boom`))
		}))
		defer server.Close()

		_, err := NewClient(server.URL).Login(ctx, "alice", "secret1")
		require.EqualError(t, err, "Login failed. Please try again.")
	})

	t.Run("generic fallback on network error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		server.Close()

		_, err := NewClient(server.URL).Login(ctx, "alice", "secret1")
		require.EqualError(t, err, "Login failed. Please try again.")
	})
}

func TestClient_Register(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/register/", r.URL.Path)
			_, _ = w.Write([]byte(`{"token":"tok-new"}`))
		}))
		defer server.Close()

		token, err := NewClient(server.URL).Register(ctx, "bob", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "tok-new", token)
	})

	t.Run("generic fallback", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		_, err := NewClient(server.URL).Register(ctx, "bob", "secret1")
		require.EqualError(t, err, "Signup failed. Please try again.")
	})
}

func TestClient_CreateEvent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	session := Session{Token: "tok-abc"}
	patch := EventPatch{
		Title:     "Standup",
		StartTime: "2024-01-01 10:00:00",
		EndTime:   "2024-01-01 11:00:00",
	}

	t.Run("success attaches token header", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/calendar/event/", r.URL.Path)
			assert.Equal(t, "Token tok-abc", r.Header.Get("Authorization"))

			var got EventPatch
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.Equal(t, patch, got)

			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":7,"title":"Standup","start_time":"2024-01-01 10:00:00","end_time":"2024-01-01 11:00:00"}`))
		}))
		defer server.Close()

		created, err := NewClient(server.URL).CreateEvent(ctx, session, patch)
		require.NoError(t, err)
		assert.Equal(t, 7, created.Id)
		assert.Equal(t, "Standup", created.Title)
	})

	t.Run("first non-field error surfaces", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"non_field_errors":["End time must be after start time","second"]}}`))
		}))
		defer server.Close()

		_, err := NewClient(server.URL).CreateEvent(ctx, session, patch)
		require.EqualError(t, err, "End time must be after start time")
	})

	t.Run("generic fallback", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		_, err := NewClient(server.URL).CreateEvent(ctx, session, patch)
		require.EqualError(t, err, "Failed to create event. Please try again.")
	})

	t.Run("empty token fails before the network", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64

		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
		}))
		defer server.Close()

		_, err := NewClient(server.URL).CreateEvent(ctx, Session{}, patch)
		require.Error(t, err)
		assert.Zero(t, calls.Load())
	})
}

func TestClient_UpdateEvent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	session := Session{Token: "tok-abc"}

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/calendar/event/7/", r.URL.Path)
			assert.Equal(t, "Token tok-abc", r.Header.Get("Authorization"))

			_, _ = w.Write([]byte(`{"id":7,"title":"Renamed","start_time":"2024-01-01 10:00:00","end_time":"2024-01-01 11:00:00"}`))
		}))
		defer server.Close()

		updated, err := NewClient(server.URL).UpdateEvent(ctx, session, 7, EventPatch{Title: "Renamed"})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
	})

	t.Run("server message surfaces", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Event overlaps another"}`))
		}))
		defer server.Close()

		_, err := NewClient(server.URL).UpdateEvent(ctx, session, 7, EventPatch{Title: "Renamed"})
		require.EqualError(t, err, "Event overlaps another")
	})
}

func TestClient_DeleteEvent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	session := Session{Token: "tok-abc"}

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/calendar/event/9/", r.URL.Path)

			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		require.NoError(t, NewClient(server.URL).DeleteEvent(ctx, session, 9))
	})

	t.Run("generic fallback", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		err := NewClient(server.URL).DeleteEvent(ctx, session, 9)
		require.EqualError(t, err, "Failed to delete event")
	})
}

func TestClient_ListEvents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	session := Session{Token: "tok-abc"}

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/calendar/event/running_events", r.URL.Path)
			assert.Equal(t, "Token tok-abc", r.Header.Get("Authorization"))

			_, _ = w.Write([]byte(`[{"id":1,"title":"One"},{"id":2,"title":"Two"}]`))
		}))
		defer server.Close()

		events, err := NewClient(server.URL).ListEvents(ctx, session, CategoryRunning)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, 1, events[0].Id)
		assert.Equal(t, "Two", events[1].Title)
	})

	t.Run("generic failure text", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"token rejected"}`))
		}))
		defer server.Close()

		_, err := NewClient(server.URL).ListEvents(ctx, session, CategoryCompleted)
		require.EqualError(t, err, "Failed to fetch events")
	})
}
