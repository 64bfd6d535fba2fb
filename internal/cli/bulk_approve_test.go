package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkApproveCommand_ParseFlags(t *testing.T) {
	t.Setenv("ADMIN_TOKEN", "")

	t.Run("requires admin token", func(t *testing.T) {
		cmd := NewBulkApproveCommand()
		err := cmd.ParseFlags([]string{"-source", "osm"})
		assert.ErrorContains(t, err, "admin token")
	})

	t.Run("dry-run works without admin token", func(t *testing.T) {
		cmd := NewBulkApproveCommand()
		assert.NoError(t, cmd.ParseFlags([]string{"-source", "osm", "-dry-run"}))
	})

	t.Run("admin token flag satisfies the check", func(t *testing.T) {
		cmd := NewBulkApproveCommand()
		assert.NoError(t, cmd.ParseFlags([]string{"-admin-token", "secret"}))
	})
}

func TestBulkApproveCommand_Run(t *testing.T) {
	var approvedIDs []int64

	mux := http.NewServeMux()
	mux.HandleFunc("/api/review/submissions", func(w http.ResponseWriter, r *http.Request) {
		submissions := []map[string]any{}
		if r.URL.Query().Get("page") == "1" {
			submissions = append(submissions,
				map[string]any{"id": 1, "tags": `{"source":"osm"}`},
				map[string]any{"id": 2, "tags": `{"source":"vancouver"}`},
				map[string]any{"id": 3, "tags": `{"source":"osm"}`},
			)
		}
		json.NewEncoder(w).Encode(map[string]any{"submissions": submissions})
	})
	mux.HandleFunc("/api/review/batch", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			SubmissionIDs []int64 `json:"submission_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		approvedIDs = append(approvedIDs, body.SubmissionIDs...)

		results := []map[string]any{}
		for _, id := range body.SubmissionIDs {
			results = append(results, map[string]any{"id": id, "status": "approved"})
		}
		json.NewEncoder(w).Encode(map[string]any{"results": results})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	cmd := NewBulkApproveCommand()
	require.NoError(t, cmd.ParseFlags([]string{
		"-source", "osm",
		"-auto-confirm",
		"-admin-token", "secret",
		"-api-endpoint", server.URL,
	}))

	require.NoError(t, cmd.Run(context.Background()))
	assert.Equal(t, []int64{1, 3}, approvedIDs)
}
