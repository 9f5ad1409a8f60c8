package shotmeta

import (
	"os"
	"path/filepath"
	"testing"
)

var fallback = FrameRange{First: 1001, Last: 1100}

func writeSidecar(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveLayouts(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    FrameRange
	}{
		{
			name:    "frameRange",
			content: `{"frameRange":{"start":1001,"end":1150}}`,
			want:    FrameRange{1001, 1150},
		},
		{
			name:    "first_last",
			content: `{"first_frame":1001,"last_frame":1150}`,
			want:    FrameRange{1001, 1150},
		},
		{
			name:    "shot_info",
			content: `{"shot_info":{"start_frame":1001,"end_frame":1028}}`,
			want:    FrameRange{1001, 1028},
		},
		{
			name:    "timeline_floats",
			content: `{"timeline_settings":{"animation_start":1001.0,"animation_end":1028.0}}`,
			want:    FrameRange{1001, 1028},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSidecar(t, ".Ep01_sq0010_SH0010.json", tc.content)
			got, found := Resolve(path, fallback)
			if !found {
				t.Fatal("layout not recognized")
			}
			if got != tc.want {
				t.Errorf("range = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResolvePriorityOrder(t *testing.T) {
	// frameRange wins over first_frame/last_frame when both are present.
	path := writeSidecar(t, ".s.json",
		`{"first_frame":1,"last_frame":2,"frameRange":{"start":1001,"end":1150}}`)
	got, found := Resolve(path, fallback)
	if !found || got != (FrameRange{1001, 1150}) {
		t.Errorf("range = %v found=%v, want 1001-1150 via frameRange", got, found)
	}
}

func TestResolveFallbacks(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"unrecognized keys", `{"fps":24,"handles":8}`},
		{"partial pair", `{"frameRange":{"start":1001}}`},
		{"malformed", `{not json`},
		{"empty", ``},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSidecar(t, ".s.json", tc.content)
			got, found := Resolve(path, fallback)
			if found {
				t.Error("found=true for unusable sidecar")
			}
			if got != fallback {
				t.Errorf("range = %v, want fallback %v", got, fallback)
			}
		})
	}
}

func TestResolveMissingFile(t *testing.T) {
	got, found := Resolve(filepath.Join(t.TempDir(), "absent.json"), fallback)
	if found || got != fallback {
		t.Errorf("missing file: got %v found=%v, want fallback", got, found)
	}
}

func TestResolveYAML(t *testing.T) {
	path := writeSidecar(t, ".s.yaml", "frameRange:\n  start: 1001\n  end: 1090\n")
	got, found := Resolve(path, fallback)
	if !found || got != (FrameRange{1001, 1090}) {
		t.Errorf("yaml range = %v found=%v, want 1001-1090", got, found)
	}
}
