package switcher

import (
	"testing"

	"multishot/internal/document"
	"multishot/internal/paths"
	"multishot/internal/shot"
	"multishot/internal/testsupport"
)

var (
	shotA = shot.Ref{Project: "P", Episode: "E1", Sequence: "S1", Shot: "SH1"}
	shotB = shot.Ref{Project: "P", Episode: "E1", Sequence: "S1", Shot: "SH2"}
)

func newFixture(t *testing.T) (*Switcher, *document.Document) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	doc := testsupport.NewDocument(t, cfg)
	return New(doc, cfg, nil), doc
}

func TestManualEditSurvivesRoundTrip(t *testing.T) {
	sw, doc := newFixture(t)
	node := document.NewReadNode("Plate", "lighting")
	if err := doc.AddNode(node); err != nil {
		t.Fatal(err)
	}

	if err := sw.Switch(shotA); err != nil {
		t.Fatal(err)
	}
	// Manual edit to the active slot, outside any dialog.
	node.ActiveVersion = "v004"

	if err := sw.Switch(shotB); err != nil {
		t.Fatal(err)
	}
	if err := sw.Switch(shotA); err != nil {
		t.Fatal(err)
	}
	if node.ActiveVersion != "v004" {
		t.Errorf("active after round trip = %q, want v004", node.ActiveVersion)
	}
}

func TestSwitchToUnseenShotDefaults(t *testing.T) {
	sw, doc := newFixture(t)
	node := document.NewReadNode("Plate", "lighting")
	node.SetVersion(shotA.ID(), "v002")
	if err := doc.AddNode(node); err != nil {
		t.Fatal(err)
	}

	if err := sw.Switch(shotA); err != nil {
		t.Fatal(err)
	}
	if node.ActiveVersion != "v002" {
		t.Fatalf("active = %q, want v002", node.ActiveVersion)
	}

	if err := sw.Switch(shotB); err != nil {
		t.Fatal(err)
	}
	if node.ActiveVersion != "v001" {
		t.Errorf("active for unseen shot = %q, want default v001", node.ActiveVersion)
	}
	// The ledger entry for the unseen shot appears only via the flush on
	// the next switch away.
	if _, ok := node.Versions[shotB.ID()]; ok {
		t.Error("switch wrote a ledger entry for the incoming shot")
	}
	if err := sw.Switch(shotA); err != nil {
		t.Fatal(err)
	}
	if got := node.Versions[shotB.ID()]; got != "v001" {
		t.Errorf("ledger[%s] = %q, want v001 after flush", shotB.ID(), got)
	}
	if got := node.Versions[shotA.ID()]; got != "v002" {
		t.Errorf("ledger[%s] = %q, want v002", shotA.ID(), got)
	}
}

func TestSetVersionsForOtherShotLeavesActiveAlone(t *testing.T) {
	sw, doc := newFixture(t)
	node := document.NewReadNode("Plate", "lighting")
	if err := doc.AddNode(node); err != nil {
		t.Fatal(err)
	}

	if err := sw.Switch(shotA); err != nil {
		t.Fatal(err)
	}
	node.ActiveVersion = "v003"

	// Assign for B. SetVersions switches to B first, which flushes A's
	// v003 into the ledger; B then becomes current, so its assignment
	// lands in both ledger and active slot.
	if err := sw.SetVersions(shotB, map[string]string{"Plate": "v009"}); err != nil {
		t.Fatal(err)
	}
	if got := node.Versions[shotA.ID()]; got != "v003" {
		t.Errorf("A's ledger entry = %q, want v003 preserved by flush", got)
	}
	if got := node.Versions[shotB.ID()]; got != "v009" {
		t.Errorf("B's ledger entry = %q, want v009", got)
	}
	if node.ActiveVersion != "v009" {
		t.Errorf("active = %q, want v009 (B is now current)", node.ActiveVersion)
	}

	// Back on A, the assignment to B must not have disturbed A's version.
	if err := sw.Switch(shotA); err != nil {
		t.Fatal(err)
	}
	if node.ActiveVersion != "v003" {
		t.Errorf("A's active = %q, want v003", node.ActiveVersion)
	}
}

func TestSetVersionsSkipsNonVersionedNodes(t *testing.T) {
	sw, doc := newFixture(t)
	if err := doc.AddNode(document.NewWriteNode("Out", "comp", "exr")); err != nil {
		t.Fatal(err)
	}
	if err := doc.AddNode(document.NewSwitchNode("Pick", "manual")); err != nil {
		t.Fatal(err)
	}

	err := sw.SetVersions(shotA, map[string]string{
		"Out":     "v002",
		"Pick":    "v002",
		"Missing": "v002",
	})
	if err != nil {
		t.Fatalf("SetVersions: %v", err)
	}
	if doc.NodeByName("Out").Versions != nil {
		t.Error("write node acquired a ledger")
	}
	if doc.NodeByName("Pick").Versions != nil {
		t.Error("switch node acquired a ledger")
	}
}

func TestSwitchRejectsIncompleteTarget(t *testing.T) {
	sw, _ := newFixture(t)
	if err := sw.Switch(shot.Ref{Project: "P"}); err == nil {
		t.Fatal("expected error for incomplete target")
	}
}

func TestSwitchResolvesFrameRangeFromSidecar(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	doc := testsupport.NewDocument(t, cfg)
	sw := New(doc, cfg, nil)

	sidecar := paths.SidecarPath(cfg.Paths.ProjectRoot, shotA)
	testsupport.WriteFile(t, sidecar, `{"frameRange":{"start":1001,"end":1150}}`)

	if err := sw.Switch(shotA); err != nil {
		t.Fatal(err)
	}
	if doc.FirstFrame != 1001 || doc.LastFrame != 1150 {
		t.Errorf("frame range = %d-%d, want 1001-1150", doc.FirstFrame, doc.LastFrame)
	}

	// No sidecar for B: configured default applies, switch still works.
	if err := sw.Switch(shotB); err != nil {
		t.Fatal(err)
	}
	if doc.FirstFrame != 1001 || doc.LastFrame != 1100 {
		t.Errorf("fallback frame range = %d-%d, want 1001-1100", doc.FirstFrame, doc.LastFrame)
	}
}
