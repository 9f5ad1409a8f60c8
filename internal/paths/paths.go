// Package paths resolves {var} path templates and builds the canonical
// locations of the project hierarchy.
//
// Templates are plain token substitution, deliberately independent of any
// host expression language: {PROJ_ROOT}/{project}/all/scene/{ep}/{seq}/{shot}.
package paths

import (
	"fmt"
	"path/filepath"
	"regexp"

	"multishot/internal/shot"
)

var tokenPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// optionalTokens may legitimately be absent at resolve time (a directory
// listing for versions, say, happens before a version exists).
var optionalTokens = map[string]bool{
	"version":  true,
	"element":  true,
	"frame":    true,
	"ext":      true,
	"variance": true,
}

// Resolve substitutes {var} tokens in template from vars. Unknown tokens
// are left in place; the returned slice lists the missing tokens that are
// not optional, for the caller to log.
func Resolve(template string, vars map[string]string) (string, []string) {
	var missing []string
	resolved := tokenPattern.ReplaceAllStringFunc(template, func(token string) string {
		name := token[1 : len(token)-1]
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if !optionalTokens[name] {
			missing = append(missing, name)
		}
		return token
	})
	return resolved, missing
}

// SceneDir is the scene root for a project: <root>/<project>/all/scene.
func SceneDir(root, project string) string {
	return filepath.Join(root, project, "all", "scene")
}

// EpisodeDir is the directory holding an episode's sequences.
func EpisodeDir(root, project, episode string) string {
	return filepath.Join(SceneDir(root, project), episode)
}

// SequenceDir is the directory holding a sequence's shots.
func SequenceDir(root, project, episode, sequence string) string {
	return filepath.Join(EpisodeDir(root, project, episode), sequence)
}

// ShotDir is the directory holding a shot's departments.
func ShotDir(root string, ref shot.Ref) string {
	return filepath.Join(SceneDir(root, ref.Project), ref.Episode, ref.Sequence, ref.Shot)
}

// DepartmentDir is a department's directory beneath a shot.
func DepartmentDir(root string, ref shot.Ref, department string) string {
	return filepath.Join(ShotDir(root, ref), department)
}

// VersionRootDir is the directory version subdirectories are created in
// for a department's working files.
func VersionRootDir(root string, ref shot.Ref, department string) string {
	return filepath.Join(DepartmentDir(root, ref, department), "version")
}

// PublishDir is the directory a department publishes versioned output to.
func PublishDir(root string, ref shot.Ref, department string) string {
	return filepath.Join(DepartmentDir(root, ref, department), "publish")
}

// SidecarPath is the per-shot metadata sidecar location: a hidden JSON
// file named after the shot inside its directory.
func SidecarPath(root string, ref shot.Ref) string {
	name := fmt.Sprintf(".%s_%s_%s.json", ref.Episode, ref.Sequence, ref.Shot)
	return filepath.Join(ShotDir(root, ref), name)
}
