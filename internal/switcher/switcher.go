// Package switcher performs shot context switches and explicit per-shot
// version assignment against a script document.
//
// Switch is the single entry point for changing the current shot. The
// outgoing-shot flush is its first, unconditional step, and the document
// exposes no other way to mutate the context slots, so no call site can
// skip the flush and lose a manually edited active version.
package switcher

import (
	"fmt"
	"log/slog"
	"sort"

	"multishot/internal/config"
	"multishot/internal/document"
	"multishot/internal/logging"
	"multishot/internal/paths"
	"multishot/internal/shot"
	"multishot/internal/shotmeta"
)

// Switcher applies context switches to one document.
type Switcher struct {
	doc    *document.Document
	cfg    *config.Config
	logger *slog.Logger
}

// New constructs a Switcher. A nil logger discards log output.
func New(doc *document.Document, cfg *config.Config, logger *slog.Logger) *Switcher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Switcher{doc: doc, cfg: cfg, logger: logger}
}

// Switch makes target the current shot:
//
//  1. flush every read node's active version into its ledger under the
//     outgoing shot (when one exists),
//  2. overwrite the context slots with the target components,
//  3. load each read node's active version from its ledger entry for the
//     target, defaulting when the shot was never seen,
//  4. resolve the shot's frame range from its metadata sidecar, falling
//     back to the configured default on any lookup failure.
//
// Step 4 failure is non-fatal; the switch still completes. Paths are not
// rebuilt here: templates re-resolve from the updated slots on read.
func (s *Switcher) Switch(target shot.Ref) error {
	if !target.Complete() {
		return fmt.Errorf("switch target incomplete: %q", target.ID())
	}

	outgoing := s.doc.Context().ID()
	s.doc.ApplyContextSwitch(target, s.cfg.Versions.DefaultLabel)
	s.logger.Info("switched shot",
		"from", string(outgoing),
		"to", string(target.ID()),
		"nodes", len(s.doc.ReadNodes()))

	s.resolveFrameRange(target)
	return nil
}

func (s *Switcher) resolveFrameRange(target shot.Ref) {
	fallback := shotmeta.FrameRange{
		First: s.cfg.FrameRange.First,
		Last:  s.cfg.FrameRange.Last,
	}

	root := s.doc.Custom["PROJ_ROOT"]
	if root == "" {
		root = s.cfg.Paths.ProjectRoot
	}
	sidecar := paths.SidecarPath(root, target)

	resolved, found := shotmeta.Resolve(sidecar, fallback)
	if found {
		s.logger.Info("frame range from sidecar", "path", sidecar, "range", resolved.String())
	} else {
		s.logger.Warn("no usable shot sidecar, using default frame range",
			"path", sidecar, "range", fallback.String())
	}
	s.doc.FirstFrame = resolved.First
	s.doc.LastFrame = resolved.Last
}

// SetVersions assigns version labels to read nodes for the target shot.
// The target is switched to first: version discovery against the
// filesystem has to happen under the target's resolved path context, so
// assigning versions to a non-current shot without switching would scan
// the wrong directories.
//
// Each label is written into the node's ledger under the target
// identifier. The active-version slot is only overwritten when the target
// is the current shot, so an assignment for another shot can never corrupt
// the displayed version. Unknown and non-versioned nodes are skipped with
// a log line, never an error.
func (s *Switcher) SetVersions(target shot.Ref, assignments map[string]string) error {
	if err := s.Switch(target); err != nil {
		return err
	}

	targetID := target.ID()
	currentID := s.doc.Context().ID()

	names := make([]string, 0, len(assignments))
	for name := range assignments {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		label := assignments[name]
		node := s.doc.NodeByName(name)
		if node == nil {
			s.logger.Warn("version assignment for unknown node", "node", name)
			continue
		}
		if !node.Versioned() {
			s.logger.Warn("version assignment for non-versioned node",
				"node", name, "kind", string(node.Kind))
			continue
		}
		node.SetVersion(targetID, label)
		if targetID == currentID {
			node.ActiveVersion = label
		}
		s.logger.Info("set version", "node", name, "shot", string(targetID), "version", label)
	}
	return nil
}
