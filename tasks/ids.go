package tasks

import (
	"app/base/utils"
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// LoadRequesterIDs reads a text file with one requester ID per line,
// skipping blank and non-numeric lines.
func LoadRequesterIDs(path string) ([]int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening requester IDs file")
	}
	defer file.Close()

	var ids []int64
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			utils.LogWarn("line", line, "skipping non-numeric requester ID line")
			continue
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading requester IDs file")
	}
	return ids, nil
}
