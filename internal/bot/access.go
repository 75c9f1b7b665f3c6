package bot

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AllowList is the immutable set of authorized user IDs, loaded once at
// startup and read-only afterwards.
type AllowList map[int64]struct{}

// Allowed reports whether userID is on the list.
func (a AllowList) Allowed(userID int64) bool {
	_, ok := a[userID]
	return ok
}

// LoadAllowList reads a newline-delimited list of integer user IDs.
// The file is a startup precondition: a missing file or a non-integer
// line fails the load.
func LoadAllowList(path string) (AllowList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open allow list %q: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	list := make(AllowList)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("allow list %q line %d: %w", path, lineNo, err)
		}
		list[id] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read allow list %q: %w", path, err)
	}
	return list, nil
}
