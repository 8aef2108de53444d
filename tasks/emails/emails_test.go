package emails

import (
	"app/base/fresh"
	"app/base/utils"
	"app/tasks"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEmailRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "add_secondary_emails.csv")
	content := "requester_id,email_1,email_2\n" +
		"1,a@x.org,b@x.org\n" +
		"2,c@x.org\n" +
		",missing@x.org\n" +
		"abc,bad@x.org\n" +
		"3, ,\n"
	assert.Nil(t, os.WriteFile(path, []byte(content), 0644))

	report := tasks.NewReport("add_secondary_emails", "", "")
	rows, err := loadEmailRows(path, report)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(rows))
	assert.Equal(t, []string{"a@x.org", "b@x.org"}, rows[0].Emails)
	assert.Equal(t, []string{"c@x.org"}, rows[1].Emails)
	assert.Empty(t, rows[2].Emails)
	// empty and malformed requester IDs are reported, not fatal
	assert.Equal(t, 2, report.Failed)
}

func TestLoadEmailRowsBadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	assert.Nil(t, os.WriteFile(path, []byte("id,email\n1,a@x.org\n"), 0644))

	report := tasks.NewReport("add_secondary_emails", "", "")
	_, err := loadEmailRows(path, report)
	assert.NotNil(t, err)
}

func TestLoadEmailRowsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	assert.Nil(t, os.WriteFile(path, []byte(""), 0644))

	report := tasks.NewReport("add_secondary_emails", "", "")
	_, err := loadEmailRows(path, report)
	assert.NotNil(t, err)
}

func TestMergeEmails(t *testing.T) {
	merged := mergeEmails([]string{"a@x.org", "b@x.org"}, []string{"b@x.org", "c@x.org"})
	assert.Equal(t, []string{"a@x.org", "b@x.org", "c@x.org"}, merged)

	assert.Empty(t, mergeEmails(nil, nil))
	assert.Equal(t, []string{"a@x.org"}, mergeEmails(nil, []string{"a@x.org", "a@x.org"}))
}

func TestAddOneUnionsSecondaryEmails(t *testing.T) {
	var putBody struct {
		SecondaryEmails []string `json:"secondary_emails"`
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/requesters/5", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			fmt.Fprint(w, `{"requester": {"id": 5, "secondary_emails": ["old@x.org"]}}`)
		case http.MethodPut:
			assert.Nil(t, json.NewDecoder(r.Body).Decode(&putBody))
			fmt.Fprint(w, `{"requester": {"id": 5}}`)
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	utils.CoreCfg.FreshAddress = server.URL
	utils.CoreCfg.FreshAPIKey = "test-key"
	client := fresh.CreateClient(false)

	report := tasks.NewReport("add_secondary_emails", "", "")
	addOne(context.Background(), client, emailRow{RequesterID: 5, Emails: []string{"new@x.org", "old@x.org"}}, report)

	assert.Equal(t, []string{"old@x.org", "new@x.org"}, putBody.SecondaryEmails)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 0, report.Failed)
}

func TestReplaceOneFailureReported(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/requesters/6", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message": "invalid email"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	utils.CoreCfg.FreshAddress = server.URL
	utils.CoreCfg.FreshAPIKey = "test-key"
	client := fresh.CreateClient(false)

	errorPath := filepath.Join(t.TempDir(), "errors.csv")
	report := tasks.NewReport("replace_secondary_emails", "", errorPath)
	replaceOne(context.Background(), client, emailRow{RequesterID: 6, Emails: []string{"a@x.org"}}, report)

	assert.Equal(t, 1, report.Failed)
	content, err := os.ReadFile(errorPath)
	assert.Nil(t, err)
	assert.Contains(t, string(content), "400")
	assert.Contains(t, string(content), "invalid email")
}
