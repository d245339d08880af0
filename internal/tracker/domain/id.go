package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

const (
	projectIDPrefix = "PRJ-"
	bugIDPrefix     = "BUG-"
)

// NewProjectID mints a human-readable project ID, e.g. "PRJ-4821".
// IDs are generated client-side; the server enforces global uniqueness on
// insert, and callers retry with a fresh ID on a duplicate.
func NewProjectID() (string, error) {
	n, err := randInt(1000, 9999)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", projectIDPrefix, n), nil
}

func randInt(min, max int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return 0, err
	}
	return min + n.Int64(), nil
}

// NextBugID computes the next sequential bug ID for a project from the
// currently known bug list: the highest parsed "BUG-<n>" suffix among the
// project's bugs plus one. Entries whose suffix does not parse are skipped.
//
// The result is derived from a local snapshot, not under a server-side lock;
// two sessions can therefore compute the same ID for the same project. The
// server rejects the duplicate insert and the caller retries after a refresh.
func NextBugID(bugs []Bug, projectID string) string {
	max := 0
	for _, b := range bugs {
		if b.ProjectID != projectID {
			continue
		}
		suffix, ok := strings.CutPrefix(b.ID, bugIDPrefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%d", bugIDPrefix, max+1)
}
