package approval

import (
	"path/filepath"
	"testing"

	"multishot/internal/testsupport"
)

func TestApproveDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "v003")
	testsupport.MkdirAll(t, dir)

	if IsApproved(dir) {
		t.Fatal("fresh directory reported approved")
	}

	record, err := Approve(dir, "jchen", "final grade")
	if err != nil {
		t.Fatal(err)
	}
	if record.Version != "v003" {
		t.Errorf("record version = %q, want v003", record.Version)
	}
	if !IsApproved(dir) {
		t.Error("directory not approved after Approve")
	}

	got, ok, err := Info(dir)
	if err != nil || !ok {
		t.Fatalf("Info = %v, %v", ok, err)
	}
	if got.ApprovedBy != "jchen" || got.Notes != "final grade" {
		t.Errorf("Info = %+v", got)
	}

	if err := Unapprove(dir); err != nil {
		t.Fatal(err)
	}
	if IsApproved(dir) {
		t.Error("directory still approved after Unapprove")
	}
	// Idempotent.
	if err := Unapprove(dir); err != nil {
		t.Errorf("second Unapprove: %v", err)
	}
}

func TestApproveFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plate_v007.exr")
	testsupport.WriteFile(t, file, "pixels")

	if _, err := Approve(file, "jchen", ""); err != nil {
		t.Fatal(err)
	}
	if !IsApproved(file) {
		t.Error("file not approved")
	}
	if IsApproved(filepath.Dir(file)) {
		t.Error("sibling sentinel should not approve the containing directory")
	}
}

func TestApproveErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Approve(dir, "", "notes"); err == nil {
		t.Error("expected error for empty approver")
	}
	if _, err := Approve(filepath.Join(dir, "absent"), "jchen", ""); err == nil {
		t.Error("expected error for missing target")
	}
}

func TestInfoCorruptSentinel(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, SentinelName), "{not json")

	if _, _, err := Info(dir); err == nil {
		t.Error("expected parse error for corrupt sentinel")
	}
}

func TestLatestApproved(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"v001", "v002", "v010"} {
		testsupport.MkdirAll(t, filepath.Join(dir, name))
	}
	names := []string{"v001", "v002", "v010"}

	if _, ok := LatestApproved(dir, names); ok {
		t.Error("LatestApproved reported ok with nothing approved")
	}

	for _, name := range []string{"v001", "v002"} {
		if _, err := Approve(filepath.Join(dir, name), "jchen", ""); err != nil {
			t.Fatal(err)
		}
	}
	latest, ok := LatestApproved(dir, names)
	if !ok || latest != "v002" {
		t.Errorf("LatestApproved = %q, %v; want v002, true", latest, ok)
	}
}
