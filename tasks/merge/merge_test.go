package merge

import (
	"app/base/fresh"
	"app/base/utils"
	"app/tasks"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadMergeRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merge.csv")
	content := "primary_requester_id,secondary_requester_id\n10,11\n20,21\n"
	assert.Nil(t, os.WriteFile(path, []byte(content), 0644))

	rows, err := loadMergeRows(path)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(rows))
	assert.Equal(t, int64(10), rows[0].PrimaryID)
	assert.Equal(t, int64(21), rows[1].SecondaryID)
}

func TestLoadMergeRowsMissingFile(t *testing.T) {
	_, err := loadMergeRows("/nonexistent/merge.csv")
	assert.NotNil(t, err)
}

// inactive primary: merge fails with the dedicated code, the task
// reactivates, retries and deactivates again
func TestMergeInactivePrimaryDance(t *testing.T) {
	var calls []string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/requesters/10/merge", func(w http.ResponseWriter, _ *http.Request) {
		calls = append(calls, "merge")
		if len(calls) == 1 {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"code": "primary_requester_should_be_active"}`)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/api/v2/requesters/10/reactivate", func(w http.ResponseWriter, _ *http.Request) {
		calls = append(calls, "reactivate")
		fmt.Fprint(w, `{"requester": {"id": 10, "active": true}}`)
	})
	mux.HandleFunc("/api/v2/requesters/10", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		calls = append(calls, "deactivate")
		w.WriteHeader(http.StatusNoContent)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	utils.CoreCfg.FreshAddress = server.URL
	utils.CoreCfg.FreshAPIKey = "test-key"
	client := fresh.CreateClient(false)

	report := tasks.NewReport("merge", "", "")
	mergeOne(context.Background(), client, mergeRow{PrimaryID: 10, SecondaryID: 11}, report)

	assert.Equal(t, []string{"merge", "reactivate", "merge", "deactivate"}, calls)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 0, report.Failed)
}

func TestMergeNotFoundReported(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/requesters/10/merge", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	utils.CoreCfg.FreshAddress = server.URL
	utils.CoreCfg.FreshAPIKey = "test-key"
	client := fresh.CreateClient(false)

	report := tasks.NewReport("merge", "", "")
	mergeOne(context.Background(), client, mergeRow{PrimaryID: 10, SecondaryID: 11}, report)

	assert.Equal(t, 0, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
}
