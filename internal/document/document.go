package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"

	"multishot/internal/shot"
)

// formatVersion is written into every document for forward compatibility.
const formatVersion = 1

// Document is the explicit script document: current context slots, custom
// variables, the node registry, the shot navigation registry, and the
// document-level frame-range slots. State lives in memory between Load and
// Save; serialization happens only at those boundaries.
type Document struct {
	path string

	context shot.Ref

	// Custom holds user variables, including the PROJ_ROOT and IMG_ROOT
	// roots that templates resolve against.
	Custom map[string]string

	FirstFrame int
	LastFrame  int

	nodes []*Node
	shots []shot.Ref
}

type documentFile struct {
	FormatVersion int               `json:"formatVersion"`
	Context       shot.Ref          `json:"context"`
	Custom        map[string]string `json:"custom,omitempty"`
	FirstFrame    int               `json:"firstFrame"`
	LastFrame     int               `json:"lastFrame"`
	Nodes         []*Node           `json:"nodes"`
	Shots         []shot.Ref        `json:"shots,omitempty"`
}

// New creates an empty document bound to the given path. The file is not
// written until Save.
func New(path string) *Document {
	return &Document{
		path:   path,
		Custom: map[string]string{},
	}
}

// Load reads a document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	var file documentFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse document %s: %w", path, err)
	}
	if file.FormatVersion > formatVersion {
		return nil, fmt.Errorf("document %s uses format version %d, newer than supported %d",
			path, file.FormatVersion, formatVersion)
	}

	doc := &Document{
		path:       path,
		context:    file.Context,
		Custom:     file.Custom,
		FirstFrame: file.FirstFrame,
		LastFrame:  file.LastFrame,
		nodes:      file.Nodes,
		shots:      file.Shots,
	}
	if doc.Custom == nil {
		doc.Custom = map[string]string{}
	}
	return doc, nil
}

// Save writes the document under an exclusive file lock and via a
// temp-file rename, so readers never observe a partial document. The
// document has one mutator at a time in interactive use; the lock guards
// against a second CLI invocation racing the first.
func (d *Document) Save() error {
	if d.path == "" {
		return fmt.Errorf("document has no path")
	}

	lock := flock.New(d.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock document: %w", err)
	}
	defer lock.Unlock()

	file := documentFile{
		FormatVersion: formatVersion,
		Context:       d.context,
		Custom:        d.Custom,
		FirstFrame:    d.FirstFrame,
		LastFrame:     d.LastFrame,
		Nodes:         d.nodes,
		Shots:         d.shots,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	if dir := filepath.Dir(d.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create document directory: %w", err)
		}
	}
	tmp := d.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	if err := os.Rename(tmp, d.path); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

// Path returns the file path the document is bound to.
func (d *Document) Path() string {
	return d.path
}

// Context returns the current shot context. The context slots have no
// public setter: the only mutation path is ApplyContextSwitch, which makes
// the outgoing-shot flush impossible to skip.
func (d *Document) Context() shot.Ref {
	return d.context
}

// ApplyContextSwitch performs the document half of a context switch:
//
//  1. For every versioned node, flush the active-version slot into the
//     ledger under the outgoing shot identifier. This happens
//     unconditionally whenever an outgoing shot exists, so manual edits to
//     the active slot are never lost.
//  2. Overwrite the context slots with the target components.
//  3. For every versioned node, load the ledger entry for the incoming
//     shot into the active-version slot, defaulting to defaultLabel.
//
// Nodes without a ledger are skipped, never faulted. No other node
// attribute is touched: path templates re-resolve from the updated context
// and active slots on their own.
func (d *Document) ApplyContextSwitch(target shot.Ref, defaultLabel string) {
	outgoing := d.context.ID()
	if outgoing != "" {
		for _, node := range d.nodes {
			if !node.Versioned() {
				continue
			}
			node.Versions[outgoing] = node.ActiveVersion
		}
	}

	d.context = target
	incoming := d.context.ID()

	for _, node := range d.nodes {
		if !node.Versioned() {
			continue
		}
		node.ActiveVersion = node.VersionFor(incoming, defaultLabel)
	}
}

// AddNode appends a node to the registry. Node names are unique within a
// document.
func (d *Document) AddNode(node *Node) error {
	if node == nil || node.Name == "" {
		return fmt.Errorf("node requires a name")
	}
	if d.NodeByName(node.Name) != nil {
		return fmt.Errorf("node %q already exists", node.Name)
	}
	d.nodes = append(d.nodes, node)
	return nil
}

// RemoveNode deletes a node by name. It reports whether a node was removed.
func (d *Document) RemoveNode(name string) bool {
	for i, node := range d.nodes {
		if node.Name == name {
			d.nodes = append(d.nodes[:i], d.nodes[i+1:]...)
			return true
		}
	}
	return false
}

// NodeByName returns the named node, or nil.
func (d *Document) NodeByName(name string) *Node {
	for _, node := range d.nodes {
		if node.Name == name {
			return node
		}
	}
	return nil
}

// Nodes returns the node registry in document order.
func (d *Document) Nodes() []*Node {
	out := make([]*Node, len(d.nodes))
	copy(out, d.nodes)
	return out
}

// ReadNodes returns the versioned nodes in document order.
func (d *Document) ReadNodes() []*Node {
	var out []*Node
	for _, node := range d.nodes {
		if node.Versioned() {
			out = append(out, node)
		}
	}
	return out
}

// AddShot appends a shot to the navigation registry, ignoring duplicates.
// The registry is independent of the ledgers: it only feeds navigation
// listings.
func (d *Document) AddShot(ref shot.Ref) bool {
	id := ref.ID()
	for _, existing := range d.shots {
		if existing.ID() == id {
			return false
		}
	}
	d.shots = append(d.shots, ref)
	return true
}

// RemoveShot deletes a registry entry by identifier.
func (d *Document) RemoveShot(id shot.ID) bool {
	for i, existing := range d.shots {
		if existing.ID() == id {
			d.shots = append(d.shots[:i], d.shots[i+1:]...)
			return true
		}
	}
	return false
}

// Shots returns the navigation registry in insertion order.
func (d *Document) Shots() []shot.Ref {
	out := make([]shot.Ref, len(d.shots))
	copy(out, d.shots)
	return out
}

// Vars returns the merged variable map used for template resolution:
// custom variables overlaid with the context components and frame-range
// slots.
func (d *Document) Vars() map[string]string {
	vars := make(map[string]string, len(d.Custom)+6)
	for key, value := range d.Custom {
		vars[key] = value
	}
	vars["project"] = d.context.Project
	vars["ep"] = d.context.Episode
	vars["seq"] = d.context.Sequence
	vars["shot"] = d.context.Shot
	vars["first_frame"] = strconv.Itoa(d.FirstFrame)
	vars["last_frame"] = strconv.Itoa(d.LastFrame)
	return vars
}
