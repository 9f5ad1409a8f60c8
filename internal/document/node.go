package document

import (
	"github.com/google/uuid"

	"multishot/internal/shot"
	"multishot/internal/versions"
)

// Kind discriminates node variants. It is assigned at construction and
// never changes; operations that only apply to one variant check the tag
// instead of probing attributes.
type Kind string

const (
	// KindRead marks media-reference nodes. Only these carry a version
	// ledger and an active-version slot.
	KindRead Kind = "read"
	// KindWrite marks render-output nodes.
	KindWrite Kind = "write"
	// KindSwitch marks input-selector nodes.
	KindSwitch Kind = "switch"
)

// Node is one node in a script document. Fields that only apply to a
// particular kind are empty on the others.
type Node struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`

	Department  string `json:"department,omitempty"`
	Layer       string `json:"layer,omitempty"`
	FilePattern string `json:"filePattern,omitempty"`

	// Versions is the per-shot version ledger, keyed by composite shot
	// identifier. Entries are created lazily and never removed by normal
	// operation. Present only on read nodes.
	Versions map[shot.ID]string `json:"versions,omitempty"`
	// ActiveVersion is the version in effect for the currently-active
	// shot. After a context switch it equals the ledger entry for the
	// current shot, or the default label when none exists.
	ActiveVersion string `json:"activeVersion,omitempty"`

	// OutputType is set on write nodes only.
	OutputType string `json:"outputType,omitempty"`
	// SwitchMode is set on switch nodes only.
	SwitchMode string `json:"switchMode,omitempty"`
}

// NewReadNode constructs a media-reference node with an empty ledger and
// the default active version.
func NewReadNode(name, department string) *Node {
	return &Node{
		ID:            uuid.NewString(),
		Name:          name,
		Kind:          KindRead,
		Department:    department,
		Versions:      map[shot.ID]string{},
		ActiveVersion: versions.DefaultLabel,
	}
}

// NewWriteNode constructs a render-output node. Write nodes share the
// department attribute with read nodes but carry no ledger.
func NewWriteNode(name, department, outputType string) *Node {
	return &Node{
		ID:         uuid.NewString(),
		Name:       name,
		Kind:       KindWrite,
		Department: department,
		OutputType: outputType,
	}
}

// NewSwitchNode constructs an input-selector node.
func NewSwitchNode(name, mode string) *Node {
	return &Node{
		ID:         uuid.NewString(),
		Name:       name,
		Kind:       KindSwitch,
		SwitchMode: mode,
	}
}

// Versioned reports whether the node carries a version ledger. The kind tag
// is the discriminator; the nil check additionally excludes nodes from
// hand-edited documents whose ledger is absent, so a misclassified node is
// skipped rather than faulted.
func (n *Node) Versioned() bool {
	return n != nil && n.Kind == KindRead && n.Versions != nil
}

// VersionFor returns the ledger entry for the given shot, or fallback when
// the shot has never had a version assigned. Never an error.
func (n *Node) VersionFor(id shot.ID, fallback string) string {
	if n == nil || n.Versions == nil {
		return fallback
	}
	if label, ok := n.Versions[id]; ok && label != "" {
		return label
	}
	return fallback
}

// SetVersion records a ledger entry, overwriting any prior value. A node
// without a ledger ignores the write.
func (n *Node) SetVersion(id shot.ID, label string) {
	if !n.Versioned() || id == "" {
		return
	}
	n.Versions[id] = label
}
