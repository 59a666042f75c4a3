package sofascore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(ClientConfig{
		BaseURL:     baseURL,
		MaxAttempts: 4,
		Backoff:     time.Millisecond,
	})
}

func TestClientRetriesThrottledStatuses(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.Header.Get("User-Agent"))
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"rounds":[{"round":2},{"round":1},{"round":2},{"round":3}]}`))
	}))
	defer srv.Close()

	rounds, err := newTestClient(t, srv.URL).Rounds(context.Background(), 17, 76986)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, rounds)
	require.EqualValues(t, 3, calls.Load())
}

func TestClientExhaustsRetryBudget(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Rounds(context.Background(), 17, 76986)
	require.ErrorIs(t, err, ErrUnavailable)
	require.EqualValues(t, 4, calls.Load())
}

func TestClientRetriesGarbledBody(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(`{"rounds":[{"round":1}`))
			return
		}
		_, _ = w.Write([]byte(`{"rounds":[{"round":1},{"round":2}]}`))
	}))
	defer srv.Close()

	rounds, err := newTestClient(t, srv.URL).Rounds(context.Background(), 17, 76986)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, rounds)
	require.EqualValues(t, 2, calls.Load())
}

func TestClientRetriesEmptyBody(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Rounds(context.Background(), 17, 76986)
	require.ErrorIs(t, err, ErrUnavailable)
	require.EqualValues(t, 4, calls.Load())
}

func TestClientStopsOnDefinitiveStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Rounds(context.Background(), 17, 76986)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUnavailable)
	require.EqualValues(t, 1, calls.Load())
}

func TestClientRoutesThroughFetchProxy(t *testing.T) {
	var gotPath, gotTarget string
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTarget = r.URL.Query().Get("url")
		_, _ = w.Write([]byte(`{"rounds":[{"round":1}]}`))
	}))
	defer proxy.Close()

	client := NewClient(ClientConfig{
		BaseURL:      "https://upstream.example/api/v1",
		ProxyBaseURL: proxy.URL,
		MaxAttempts:  1,
		Backoff:      time.Millisecond,
	})

	rounds, err := client.Rounds(context.Background(), 8, 77559)
	require.NoError(t, err)
	require.Equal(t, []int{1}, rounds)
	require.Equal(t, "/fetch", gotPath)
	require.Equal(t, "https://upstream.example/api/v1/unique-tournament/8/season/77559/rounds", gotTarget)
}

func TestEventsForRoundFallsBackToQueryShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery == "round=5" {
			_, _ = w.Write([]byte(`{"events":[{"id":9001,"homeTeam":{"name":"Arsenal"},"awayTeam":{"name":"Chelsea"},"status":{"type":"finished"}}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"events":[]}`))
	}))
	defer srv.Close()

	events, err := newTestClient(t, srv.URL).EventsForRound(context.Background(), 17, 76986, 5)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.EqualValues(t, 9001, events[0].ID)
	require.Equal(t, "Arsenal", events[0].HomeTeam)
}

func TestEventDetailParsesScores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/event/42", r.URL.Path)
		_, _ = w.Write([]byte(`{"event":{"id":42,"homeTeam":{"name":"Lyon"},"awayTeam":{"name":"Lille"},"startTimestamp":1767139200,"venue":{"name":"Groupama Stadium"},"status":{"type":"finished"},"homeScore":{"current":2},"awayScore":{"current":0}}}`))
	}))
	defer srv.Close()

	event, err := newTestClient(t, srv.URL).EventDetail(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, "Lyon", event.HomeTeam)
	require.Equal(t, "Groupama Stadium", event.Venue)
	require.NotNil(t, event.HomeScore)
	require.Equal(t, 2, *event.HomeScore)
	require.NotNil(t, event.AwayScore)
	require.Equal(t, 0, *event.AwayScore)
	require.Equal(t, time.Unix(1767139200, 0).UTC(), event.Kickoff)
}

func TestStatisticsAndIncidentsDegradeWhenMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	stats, err := client.Statistics(context.Background(), 42)
	require.NoError(t, err)
	require.Empty(t, stats)

	incidents, err := client.Incidents(context.Background(), 42)
	require.NoError(t, err)
	require.Empty(t, incidents)
}
