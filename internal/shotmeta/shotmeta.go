// Package shotmeta resolves per-shot frame ranges from metadata sidecar
// files.
//
// Sidecars come from several upstream tools with different key layouts.
// Each recognized layout is tried in a fixed priority order; anything else
// falls back to a caller-supplied default range. Lookup failure is never an
// error: the switch that requested the range still completes.
package shotmeta

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FrameRange is an inclusive start/end frame pair.
type FrameRange struct {
	First int
	Last  int
}

// String renders the range as "first-last".
func (r FrameRange) String() string {
	return fmt.Sprintf("%d-%d", r.First, r.Last)
}

// Frame values arrive as JSON numbers or YAML floats; some exporters write
// "animation_start": 1001.0.
type boundsPair struct {
	start *float64
	end   *float64
}

func (p boundsPair) valid() bool {
	return p.start != nil && p.end != nil
}

func (p boundsPair) frameRange() FrameRange {
	return FrameRange{First: int(*p.start), Last: int(*p.end)}
}

type sidecar struct {
	FrameRange *struct {
		Start *float64 `json:"start" yaml:"start"`
		End   *float64 `json:"end" yaml:"end"`
	} `json:"frameRange" yaml:"frameRange"`

	FirstFrame *float64 `json:"first_frame" yaml:"first_frame"`
	LastFrame  *float64 `json:"last_frame" yaml:"last_frame"`

	ShotInfo *struct {
		StartFrame *float64 `json:"start_frame" yaml:"start_frame"`
		EndFrame   *float64 `json:"end_frame" yaml:"end_frame"`
	} `json:"shot_info" yaml:"shot_info"`

	TimelineSettings *struct {
		AnimationStart *float64 `json:"animation_start" yaml:"animation_start"`
		AnimationEnd   *float64 `json:"animation_end" yaml:"animation_end"`
	} `json:"timeline_settings" yaml:"timeline_settings"`
}

// layouts returns the recognized key layouts in priority order.
func (s *sidecar) layouts() []boundsPair {
	pairs := make([]boundsPair, 0, 4)
	if s.FrameRange != nil {
		pairs = append(pairs, boundsPair{s.FrameRange.Start, s.FrameRange.End})
	}
	pairs = append(pairs, boundsPair{s.FirstFrame, s.LastFrame})
	if s.ShotInfo != nil {
		pairs = append(pairs, boundsPair{s.ShotInfo.StartFrame, s.ShotInfo.EndFrame})
	}
	if s.TimelineSettings != nil {
		pairs = append(pairs, boundsPair{s.TimelineSettings.AnimationStart, s.TimelineSettings.AnimationEnd})
	}
	return pairs
}

// Resolve reads the sidecar at path and returns its frame range. The bool
// reports whether a recognized layout was found; when false, the returned
// range is the fallback. Missing files, unreadable files, and unrecognized
// layouts all take the fallback path.
func Resolve(path string, fallback FrameRange) (FrameRange, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fallback, false
	}

	var meta sidecar
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &meta)
	default:
		err = json.Unmarshal(data, &meta)
	}
	if err != nil {
		return fallback, false
	}

	for _, pair := range meta.layouts() {
		if pair.valid() {
			return pair.frameRange(), true
		}
	}
	return fallback, false
}
