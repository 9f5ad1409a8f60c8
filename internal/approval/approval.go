// Package approval marks rendered versions as approved with sentinel
// files.
//
// A directory is approved by a ".approved" file inside it; a single file
// by a sibling named after it with an ".approved" suffix. The sentinel
// carries a small JSON payload recording who approved what and when, so
// downstream tools can display provenance without a database.
package approval

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"multishot/internal/versions"
)

// SentinelName is the marker filename placed inside approved directories.
const SentinelName = ".approved"

// Record is the payload stored in a sentinel file.
type Record struct {
	ApprovedBy string    `json:"approved_by"`
	ApprovedAt time.Time `json:"approved_at"`
	Notes      string    `json:"notes,omitempty"`
	Path       string    `json:"filepath"`
	Version    string    `json:"version,omitempty"`
}

// SentinelPath maps a target path to its sentinel location. Directories
// hold the sentinel inside themselves; files get a sibling marker.
func SentinelPath(target string) string {
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return filepath.Join(target, SentinelName)
	}
	return target + SentinelName
}

// IsApproved reports whether target carries an approval sentinel.
func IsApproved(target string) bool {
	_, err := os.Stat(SentinelPath(target))
	return err == nil
}

// Approve writes an approval sentinel for target. The version recorded in
// the payload is extracted from the target path when recognizable.
func Approve(target, approver, notes string) (Record, error) {
	if approver == "" {
		return Record{}, errors.New("approver required")
	}
	if _, err := os.Stat(target); err != nil {
		return Record{}, fmt.Errorf("approval target: %w", err)
	}

	record := Record{
		ApprovedBy: approver,
		ApprovedAt: time.Now().UTC(),
		Notes:      notes,
		Path:       target,
	}
	if label, ok := versions.FromPath(target); ok {
		record.Version = label
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return Record{}, fmt.Errorf("encode approval: %w", err)
	}
	if err := os.WriteFile(SentinelPath(target), data, 0o644); err != nil {
		return Record{}, fmt.Errorf("write approval: %w", err)
	}
	return record, nil
}

// Unapprove removes the approval sentinel for target. Removing an
// unapproved target is not an error.
func Unapprove(target string) error {
	err := os.Remove(SentinelPath(target))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove approval: %w", err)
	}
	return nil
}

// Info reads the sentinel payload for target. The boolean is false when
// the target is not approved; a sentinel that exists but cannot be parsed
// surfaces as an error.
func Info(target string) (Record, bool, error) {
	data, err := os.ReadFile(SentinelPath(target))
	if errors.Is(err, os.ErrNotExist) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("read approval: %w", err)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, false, fmt.Errorf("parse approval %s: %w", SentinelPath(target), err)
	}
	return record, true, nil
}

// ApprovedVersions filters the given version directory names under dir to
// the approved ones.
func ApprovedVersions(dir string, names []string) []string {
	approved := []string{}
	for _, name := range names {
		if IsApproved(filepath.Join(dir, name)) {
			approved = append(approved, name)
		}
	}
	return approved
}

// LatestApproved returns the highest approved version beneath dir, given
// the full list of version directory names. The boolean is false when no
// approved version exists.
func LatestApproved(dir string, names []string) (string, bool) {
	return versions.Latest(ApprovedVersions(dir, names))
}
