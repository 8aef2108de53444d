package tasks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadRequesterIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requester_ids.txt")
	content := "123\n\n  456  \nnot-a-number\n789\n"
	assert.Nil(t, os.WriteFile(path, []byte(content), 0644))

	ids, err := LoadRequesterIDs(path)
	assert.Nil(t, err)
	assert.Equal(t, []int64{123, 456, 789}, ids)
}

func TestLoadRequesterIDsMissingFile(t *testing.T) {
	_, err := LoadRequesterIDs("/nonexistent/requester_ids.txt")
	assert.NotNil(t, err)
}
