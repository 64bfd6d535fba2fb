package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/publicart/massimport/internal/entities"
)

func testRecord() entities.CanonicalRecord {
	return entities.CanonicalRecord{
		ExternalID: "osm-node-123",
		Lat:        49.28,
		Lon:        -123.12,
		Title:      "Digital Orca",
		Source:     "osm",
	}
}

func TestSubmitRecord_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/submissions", r.URL.Path)
		require.Equal(t, "Bearer import-token", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "osm-node-123", req["external_id"])

		json.NewEncoder(w).Encode(map[string]any{
			"success": true, "id": "sub-1", "photos_imported": 2,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "import-token", "", 3, time.Millisecond)
	outcome, err := client.SubmitRecord(context.Background(), testRecord(), nil)

	require.NoError(t, err)
	assert.Equal(t, "sub-1", outcome.ID)
	assert.Equal(t, 2, outcome.PhotosSucceeded)
}

func TestSubmitRecord_RetriesThenSucceeds(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "id": "sub-2"})
	}))
	defer server.Close()

	var retries []int
	client := NewClient(server.URL, "t", "", 3, time.Millisecond)
	client.OnRetry = func(attempt int, err error) { retries = append(retries, attempt) }

	outcome, err := client.SubmitRecord(context.Background(), testRecord(), nil)

	require.NoError(t, err)
	assert.Equal(t, "sub-2", outcome.ID)
	assert.Equal(t, int32(3), attempts.Load(), "exactly three attempts expected")
	assert.Equal(t, []int{1, 2}, retries)
}

func TestSubmitRecord_ExhaustsRetries(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", "", 3, time.Millisecond)
	_, err := client.SubmitRecord(context.Background(), testRecord(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
	assert.Equal(t, int32(3), attempts.Load())
}

func TestSubmitRecord_UnauthorizedNotRetried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad", "", 3, time.Millisecond)
	_, err := client.SubmitRecord(context.Background(), testRecord(), nil)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestSubmitRecord_RateLimitedRetried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "id": "sub-3"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", "", 3, time.Millisecond)
	outcome, err := client.SubmitRecord(context.Background(), testRecord(), nil)

	require.NoError(t, err)
	assert.Equal(t, "sub-3", outcome.ID)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestSubmitRecord_ServerSideRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": false, "errors": []string{"title too long"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", "", 3, time.Millisecond)
	_, err := client.SubmitRecord(context.Background(), testRecord(), nil)

	var rejection *SubmissionError
	require.ErrorAs(t, err, &rejection)
	assert.Contains(t, rejection.Messages, "title too long")
	assert.False(t, IsRetryable(err))
}

func TestSubmitRecord_CancelledContextAbortsWait(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient(server.URL, "t", "", 5, time.Hour)
	client.OnRetry = func(int, error) { cancel() }

	start := time.Now()
	_, err := client.SubmitRecord(ctx, testRecord(), nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNearbyRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/artworks/nearby", r.URL.Path)
		assert.Equal(t, "49.28", r.URL.Query().Get("lat"))
		assert.Equal(t, "100", r.URL.Query().Get("radius"))
		json.NewEncoder(w).Encode(map[string]any{
			"artworks": []entities.ExistingRecord{{ID: "a1", Title: "Orca", Lat: 49.28, Lon: -123.12}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", "", 1, 0)
	records, err := client.NearbyRecords(context.Background(), 49.28, -123.12, 100)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a1", records[0].ID)
}

func TestSearchAndCreateCreators(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/creators/search":
			assert.Equal(t, "jim green", r.URL.Query().Get("q"))
			json.NewEncoder(w).Encode(map[string]any{
				"creators": []entities.Creator{{ID: "c1", Name: "Jim Green"}},
			})
		case "/api/creators":
			require.Equal(t, http.MethodPost, r.Method)
			json.NewEncoder(w).Encode(map[string]any{"id": "c9"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", "", 1, 0)

	creators, err := client.SearchCreators(context.Background(), "jim green")
	require.NoError(t, err)
	require.Len(t, creators, 1)
	assert.Equal(t, "c1", creators[0].ID)

	id, err := client.CreateCreator(context.Background(), "New Artist", map[string]string{"source": "osm"})
	require.NoError(t, err)
	assert.Equal(t, "c9", id)
}

func TestPendingSubmissions_PagesAndCaps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))
		page := r.URL.Query().Get("page")

		var subs []entities.PendingSubmission
		if page == "1" {
			for i := int64(1); i <= 100; i++ {
				subs = append(subs, entities.PendingSubmission{ID: i})
			}
		} else if page == "2" {
			subs = []entities.PendingSubmission{{ID: 101}, {ID: 102}}
		}
		json.NewEncoder(w).Encode(map[string]any{"submissions": subs})
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", "admin-token", 1, 0)

	all, err := client.PendingSubmissions(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 102)

	capped, err := client.PendingSubmissions(context.Background(), 50)
	require.NoError(t, err)
	assert.Len(t, capped, 50)
}

func TestApproveBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/review/batch", r.URL.Path)
		require.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))

		var req struct {
			SubmissionIDs []int64 `json:"submission_ids"`
			Action        string  `json:"action"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "approve", req.Action)

		var results []ApprovalOutcome
		for _, id := range req.SubmissionIDs {
			results = append(results, ApprovalOutcome{ID: id, Status: "approved"})
		}
		json.NewEncoder(w).Encode(map[string]any{"results": results})
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", "admin-token", 1, 0)
	outcomes, err := client.ApproveBatch(context.Background(), []int64{1, 2, 3})

	require.NoError(t, err)
	assert.Len(t, outcomes, 3)
	assert.Equal(t, "approved", outcomes[0].Status)
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", "", 1, 0)
	assert.NoError(t, client.Health(context.Background()))
}

func TestHealth_Down(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", "", 1, 0)
	assert.Error(t, client.Health(context.Background()))
}
