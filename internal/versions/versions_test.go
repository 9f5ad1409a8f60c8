package versions

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Label
		ok   bool
	}{
		{"v001", Label{Major: 1}, true},
		{"V012", Label{Major: 12}, true},
		{"v003_002", Label{Major: 3, Minor: 2, HasMinor: true}, true},
		{" v004 ", Label{Major: 4}, true},
		{"v", Label{}, false},
		{"ver003", Label{}, false},
		{"003", Label{}, false},
		{"v003_", Label{}, false},
		{"", Label{}, false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Parse(%q) = %+v, %v; want %+v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCompareAndSort(t *testing.T) {
	labels := []string{"v010", "draft", "v002", "v003_002", "v003", "v003_001"}
	Sort(labels)
	want := []string{"draft", "v002", "v003", "v003_001", "v003_002", "v010"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("Sort = %v, want %v", labels, want)
	}

	if Compare("v003", "v003_000") != 0 {
		t.Error("v003 and v003_000 should order equally")
	}
}

func TestLatest(t *testing.T) {
	latest, ok := Latest([]string{"v002", "junk", "v010", "v009_005"})
	if !ok || latest != "v010" {
		t.Errorf("Latest = %q, %v; want v010, true", latest, ok)
	}
	if _, ok := Latest([]string{"junk", "notes"}); ok {
		t.Error("Latest reported ok with no parseable labels")
	}
}

func TestIncrementAndSubVersion(t *testing.T) {
	tests := []struct {
		fn   func(string) string
		in   string
		want string
	}{
		{Increment, "v003", "v004"},
		{Increment, "v003_002", "v003_003"},
		{Increment, "garbage", DefaultLabel},
		{SubVersion, "v003", "v003_001"},
		{SubVersion, "v003_002", "v003_003"},
		{SubVersion, "garbage", "v001_001"},
	}
	for _, tt := range tests {
		if got := tt.fn(tt.in); got != tt.want {
			t.Errorf("derive(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"/mnt/projects/SWA/all/scene/Ep01/sq0010/SH0010/comp/version/v012/plate.exr", "v012", true},
		{"renders/shot_v007_beauty.exr", "v007", true},
		{"plate.v023.1001.exr", "v023", true},
		{"publish/version_004/scene.nk", "v004", true},
		{`C:\renders\v005\plate.exr`, "v005", true},
		{"renders/latest/plate.exr", "", false},
	}
	for _, tt := range tests {
		got, ok := FromPath(tt.path)
		if ok != tt.ok || got != tt.want {
			t.Errorf("FromPath(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}
