package scanner

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"multishot/internal/shot"
	"multishot/internal/testsupport"
)

func newScanner(t *testing.T) *Scanner {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	s, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func mkdirs(t *testing.T, base string, names ...string) {
	t.Helper()
	for _, name := range names {
		testsupport.MkdirAll(t, filepath.Join(base, name))
	}
}

func TestChildrenFiltersAndOrders(t *testing.T) {
	s := newScanner(t)
	dir := t.TempDir()
	mkdirs(t, dir, "v010", "v002", "v002_003", "notes", "v1")
	testsupport.WriteFile(t, filepath.Join(dir, "v005"), "a file, not a dir")

	got := s.Versions(dir)
	want := []string{"v1", "v002", "v002_003", "v010"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Versions = %v, want %v", got, want)
	}
}

func TestChildrenEmptyAndMissingDirs(t *testing.T) {
	s := newScanner(t)

	if got := s.Versions(t.TempDir()); len(got) != 0 || got == nil {
		t.Errorf("empty dir: got %v, want empty non-nil slice", got)
	}
	if got := s.Versions(filepath.Join(t.TempDir(), "absent")); len(got) != 0 {
		t.Errorf("missing dir: got %v, want empty slice", got)
	}
}

func TestCacheHitSkipsFilesystem(t *testing.T) {
	s := newScanner(t)
	dir := t.TempDir()
	mkdirs(t, dir, "v001", "v002")

	calls := 0
	s.listDir = func(path string) ([]os.DirEntry, error) {
		calls++
		return os.ReadDir(path)
	}
	now := time.Now()
	s.now = func() time.Time { return now }

	first := s.Versions(dir)
	mkdirs(t, dir, "v003")
	second := s.Versions(dir)

	if calls != 1 {
		t.Errorf("listDir called %d times, want 1", calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached result changed: %v then %v", first, second)
	}

	// Past the expiry the new entry shows up.
	now = now.Add(301 * time.Second)
	third := s.Versions(dir)
	if calls != 2 {
		t.Errorf("listDir called %d times after expiry, want 2", calls)
	}
	if want := []string{"v001", "v002", "v003"}; !reflect.DeepEqual(third, want) {
		t.Errorf("post-expiry = %v, want %v", third, want)
	}
}

func TestClearCacheForcesRescan(t *testing.T) {
	s := newScanner(t)
	dir := t.TempDir()
	mkdirs(t, dir, "v001")

	s.Versions(dir)
	mkdirs(t, dir, "v002")
	s.ClearCache()

	if got := s.Versions(dir); len(got) != 2 {
		t.Errorf("after ClearCache got %v, want both versions", got)
	}
}

func TestHierarchyListing(t *testing.T) {
	s := newScanner(t)
	root := t.TempDir()
	ref := shot.Ref{Project: "SWA", Episode: "Ep01", Sequence: "sq0010", Shot: "SH0010"}

	shotDir := filepath.Join(root, "SWA", "all", "scene", "Ep01", "sq0010", "SH0010")
	mkdirs(t, shotDir, "comp", "lighting")
	mkdirs(t, filepath.Join(root, "SWA", "all", "scene", "Ep01", "sq0010"), "SH0020")
	mkdirs(t, filepath.Join(root, "SWA", "all", "scene", "Ep01"), "sq0020")
	mkdirs(t, filepath.Join(root, "SWA", "all", "scene"), "Ep02")
	// A sibling without all/scene is not a project.
	mkdirs(t, root, "scratch")

	if got, want := s.Projects(root), []string{"SWA"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Projects = %v, want %v", got, want)
	}
	if got, want := s.Episodes(root, "SWA"), []string{"Ep01", "Ep02"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Episodes = %v, want %v", got, want)
	}
	if got, want := s.Sequences(root, "SWA", "Ep01"), []string{"sq0010", "sq0020"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Sequences = %v, want %v", got, want)
	}
	if got, want := s.Shots(root, "SWA", "Ep01", "sq0010"), []string{"SH0010", "SH0020"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Shots = %v, want %v", got, want)
	}
	if got, want := s.Departments(root, ref), []string{"comp", "lighting"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Departments = %v, want %v", got, want)
	}
}

func TestLatestVersion(t *testing.T) {
	s := newScanner(t)
	dir := t.TempDir()

	if _, ok := s.LatestVersion(dir); ok {
		t.Error("LatestVersion reported ok for empty dir")
	}
	s.ClearCache()

	mkdirs(t, dir, "v002", "v010", "v009_002")
	latest, ok := s.LatestVersion(dir)
	if !ok || latest != "v010" {
		t.Errorf("LatestVersion = %q, %v; want v010, true", latest, ok)
	}
}
