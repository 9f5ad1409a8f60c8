// Package shot defines the shot reference tuple and its composite identifier.
package shot

import (
	"fmt"
	"strings"
)

// IDDelimiter joins the components of a shot identifier. It is fixed: the
// identifier format is shared with documents written by earlier releases.
const IDDelimiter = "_"

// ID is the composite identifier for one shot across a whole document,
// e.g. "SWA_Ep01_sq0010_SH0010".
type ID string

// Ref holds the components of a shot context. It is a plain value; the
// identifier is recomputed from the components whenever they change.
type Ref struct {
	Project  string `json:"project"`
	Episode  string `json:"episode"`
	Sequence string `json:"sequence"`
	Shot     string `json:"shot"`
}

// ID returns the composite identifier for the reference. The zero Ref
// yields an empty ID, which callers treat as "no current shot".
func (r Ref) ID() ID {
	if r.IsZero() {
		return ""
	}
	return ID(strings.Join([]string{r.Project, r.Episode, r.Sequence, r.Shot}, IDDelimiter))
}

// IsZero reports whether every component is empty.
func (r Ref) IsZero() bool {
	return r.Project == "" && r.Episode == "" && r.Sequence == "" && r.Shot == ""
}

// Complete reports whether every component is set. Navigation entries and
// switch targets require a complete reference.
func (r Ref) Complete() bool {
	return r.Project != "" && r.Episode != "" && r.Sequence != "" && r.Shot != ""
}

// String implements fmt.Stringer using the composite identifier.
func (r Ref) String() string {
	return string(r.ID())
}

// Parse splits a composite identifier back into its components. The
// project component may itself contain the delimiter; episode, sequence,
// and shot may not, so the split is anchored at the right.
func Parse(id string) (Ref, error) {
	parts := strings.Split(strings.TrimSpace(id), IDDelimiter)
	if len(parts) < 4 {
		return Ref{}, fmt.Errorf("shot identifier %q needs project, episode, sequence, and shot", id)
	}
	n := len(parts)
	ref := Ref{
		Project:  strings.Join(parts[:n-3], IDDelimiter),
		Episode:  parts[n-3],
		Sequence: parts[n-2],
		Shot:     parts[n-1],
	}
	if !ref.Complete() {
		return Ref{}, fmt.Errorf("shot identifier %q has an empty component", id)
	}
	return ref, nil
}
