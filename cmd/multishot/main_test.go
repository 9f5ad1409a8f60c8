package main

import (
	"os"
	"path/filepath"
	"testing"

	"multishot/internal/document"
)

func TestSwitchAndStatus(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "nodes", "add", "read", "Plate", "--department", "lighting")
	if err != nil {
		t.Fatalf("nodes add: %v", err)
	}
	requireContains(t, out, "Added read node Plate")

	out, _, err = runCLI(t, env, "switch", "SWA_Ep01_sq0010_SH0010")
	if err != nil {
		t.Fatalf("switch: %v", err)
	}
	requireContains(t, out, "Current shot: SWA_Ep01_sq0010_SH0010")
	requireContains(t, out, "Plate -> v001")

	out, _, err = runCLI(t, env, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "SWA_Ep01_sq0010_SH0010")
	requireContains(t, out, "Plate")

	// The document landed on disk.
	if _, err := os.Stat(env.scriptPath); err != nil {
		t.Fatalf("document not written: %v", err)
	}
}

func TestVersionRoundTripAcrossInvocations(t *testing.T) {
	env := setupCLITestEnv(t)

	mustRunCLI(t, env, "nodes", "add", "read", "Plate")
	mustRunCLI(t, env, "switch", "SWA_Ep01_sq0010_SH0010")
	mustRunCLI(t, env, "versions", "set", "Plate=v004")
	mustRunCLI(t, env, "switch", "SWA_Ep01_sq0010_SH0020")

	out := mustRunCLI(t, env, "switch", "SWA_Ep01_sq0010_SH0010")
	requireContains(t, out, "Plate -> v004")

	doc, err := document.Load(env.scriptPath)
	if err != nil {
		t.Fatal(err)
	}
	node := doc.NodeByName("Plate")
	if node == nil {
		t.Fatal("Plate missing from document")
	}
	if got := node.Versions["SWA_Ep01_sq0010_SH0020"]; got != "v001" {
		t.Errorf("ledger for other shot = %q, want v001", got)
	}
}

func TestVersionsSetRejectsBadLabel(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "nodes", "add", "read", "Plate")
	mustRunCLI(t, env, "switch", "SWA_Ep01_sq0010_SH0010")

	if _, _, err := runCLI(t, env, "versions", "set", "Plate=latest"); err == nil {
		t.Fatal("expected error for malformed version label")
	}
}

func TestVarsCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	mustRunCLI(t, env, "vars", "set", "IMG_ROOT=/mnt/images")
	out := mustRunCLI(t, env, "vars", "list")
	requireContains(t, out, "IMG_ROOT")
	requireContains(t, out, "/mnt/images")

	if _, _, err := runCLI(t, env, "vars", "set", "shot=SH0010"); err == nil {
		t.Fatal("expected error when setting a reserved variable")
	}

	mustRunCLI(t, env, "vars", "unset", "IMG_ROOT")
	if _, _, err := runCLI(t, env, "vars", "unset", "IMG_ROOT"); err == nil {
		t.Fatal("expected error unsetting a missing variable")
	}
}

func TestShotsRegistry(t *testing.T) {
	env := setupCLITestEnv(t)

	mustRunCLI(t, env, "shots", "add", "SWA", "Ep01", "sq0010", "SH0010")
	out := mustRunCLI(t, env, "shots", "add", "SWA_Ep01_sq0010_SH0010")
	requireContains(t, out, "already registered")

	out = mustRunCLI(t, env, "shots", "list")
	requireContains(t, out, "SWA_Ep01_sq0010_SH0010")

	mustRunCLI(t, env, "shots", "remove", "SWA_Ep01_sq0010_SH0010")
	out = mustRunCLI(t, env, "shots", "list")
	requireContains(t, out, "No registered shots")
}

func TestScanListsHierarchy(t *testing.T) {
	env := setupCLITestEnv(t)

	shotDir := filepath.Join(env.projectDir, "SWA", "all", "scene", "Ep01", "sq0010", "SH0010")
	if err := os.MkdirAll(filepath.Join(shotDir, "comp", "version", "v002"), 0o755); err != nil {
		t.Fatal(err)
	}

	out := mustRunCLI(t, env, "scan", "projects")
	requireContains(t, out, "SWA")

	out = mustRunCLI(t, env, "scan", "shots", "SWA", "Ep01", "sq0010")
	requireContains(t, out, "SH0010")

	out = mustRunCLI(t, env, "scan", "versions", "SWA_Ep01_sq0010_SH0010", "--latest")
	requireContains(t, out, "v002")
}

func TestPathsResolvesTemplates(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "switch", "SWA_Ep01_sq0010_SH0010")

	out := mustRunCLI(t, env, "paths", "nuke_files")
	want := filepath.Join(env.projectDir, "SWA", "all", "scene", "Ep01", "sq0010", "SH0010", "comp", "version")
	requireContains(t, out, want)

	if _, _, err := runCLI(t, env, "paths", "bogus"); err == nil {
		t.Fatal("expected error for unknown template name")
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out := mustRunCLI(t, env, "config", "validate")
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out = mustRunCLI(t, env, "config", "init", "--path", target)
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}
}

func TestApproveCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "v003")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}

	out := mustRunCLI(t, env, "approve", target, "--by", "jchen", "--notes", "final")
	requireContains(t, out, "Approved")

	out = mustRunCLI(t, env, "approve", target, "--show")
	requireContains(t, out, "jchen")
	requireContains(t, out, "v003")

	mustRunCLI(t, env, "unapprove", target)
	out = mustRunCLI(t, env, "approve", target, "--show")
	requireContains(t, out, "not approved")
}

func mustRunCLI(t *testing.T, env *cliTestEnv, args ...string) string {
	t.Helper()
	out, stderr, err := runCLI(t, env, args...)
	if err != nil {
		t.Fatalf("%v: %v (stderr: %s)", args, err, stderr)
	}
	return out
}
