package tasks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportFailureRecorded(t *testing.T) {
	dir := t.TempDir()
	errorPath := filepath.Join(dir, "errors.csv")
	report := NewReport("deactivate", "", errorPath)

	report.Success(1, "deactivated")
	report.Failure("2", "500", "internal error")

	err := report.Finish()
	assert.NotNil(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)

	content, readErr := os.ReadFile(errorPath)
	assert.Nil(t, readErr)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	assert.Equal(t, 2, len(lines)) // header + one row
	assert.Contains(t, lines[0], "requester_id")
	assert.Contains(t, lines[1], "internal error")
}

func TestReportAppendsWithoutDuplicateHeader(t *testing.T) {
	dir := t.TempDir()
	successPath := filepath.Join(dir, "success.csv")
	report := NewReport("merge", successPath, "")

	report.Success(1, "merged 2")
	report.Success(3, "merged 4")

	assert.Nil(t, report.Finish())

	content, err := os.ReadFile(successPath)
	assert.Nil(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	assert.Equal(t, 3, len(lines)) // header + two rows
	assert.Equal(t, 1, strings.Count(string(content), "run_id"))
}
