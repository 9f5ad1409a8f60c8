// Package scanner discovers the project hierarchy on disk.
//
// Each level of the hierarchy (episode, sequence, shot, department,
// version) is matched by a configurable anchored pattern. Listings are
// cached per (level, parent) with a fixed expiry: a hit returns the prior
// result without touching the filesystem. Missing or unreadable
// directories yield an empty ordered result; callers treat "no entries" as
// a normal, displayable state.
package scanner

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"multishot/internal/config"
	"multishot/internal/logging"
	"multishot/internal/paths"
	"multishot/internal/shot"
	"multishot/internal/versions"
)

// Level names one tier of the project hierarchy.
type Level string

const (
	LevelProject    Level = "project"
	LevelEpisode    Level = "episode"
	LevelSequence   Level = "sequence"
	LevelShot       Level = "shot"
	LevelDepartment Level = "department"
	LevelVersion    Level = "version"
)

type cacheKey struct {
	level  Level
	parent string
}

type cacheEntry struct {
	names []string
	at    time.Time
}

// Scanner lists hierarchy levels with pattern matching, numeric-aware
// ordering, and a time-based cache.
type Scanner struct {
	ttl      time.Duration
	patterns map[Level]*regexp.Regexp
	logger   *slog.Logger

	mu       sync.Mutex
	cache    map[cacheKey]cacheEntry
	collator *collate.Collator

	// Overridable in tests.
	now     func() time.Time
	listDir func(string) ([]os.DirEntry, error)
}

// New builds a Scanner from configured patterns. A nil logger discards
// log output.
func New(cfg *config.Config, logger *slog.Logger) (*Scanner, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	patterns := make(map[Level]*regexp.Regexp, 4)
	for level, pattern := range map[Level]string{
		LevelEpisode:    cfg.Scanner.EpisodePattern,
		LevelSequence:   cfg.Scanner.SequencePattern,
		LevelShot:       cfg.Scanner.ShotPattern,
		LevelDepartment: cfg.Scanner.DepartmentPattern,
		LevelVersion:    cfg.Scanner.VersionPattern,
	} {
		compiled, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("compile %s pattern: %w", level, err)
		}
		patterns[level] = compiled
	}

	return &Scanner{
		ttl:      time.Duration(cfg.Scanner.CacheTimeoutSeconds) * time.Second,
		patterns: patterns,
		logger:   logger,
		cache:    map[cacheKey]cacheEntry{},
		collator: collate.New(language.Und, collate.Numeric),
		now:      time.Now,
		listDir:  os.ReadDir,
	}, nil
}

// Children returns the directory names beneath parent that match the
// level's pattern, ordered numerically-aware so v002 sorts before v010.
// Results are cached; within the expiry window the identical slice is
// returned without a filesystem access.
func (s *Scanner) Children(level Level, parent string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cacheKey{level: level, parent: parent}
	if entry, ok := s.cache[key]; ok && s.now().Sub(entry.at) < s.ttl {
		return entry.names
	}

	names := s.scan(level, parent)
	s.cache[key] = cacheEntry{names: names, at: s.now()}
	return names
}

func (s *Scanner) scan(level Level, parent string) []string {
	names := []string{}

	entries, err := s.listDir(parent)
	if err != nil {
		// Missing or unreadable parent: empty result, not an error.
		s.logger.Debug("scan skipped", "level", string(level), "path", parent, "reason", err.Error())
		return names
	}

	pattern := s.patterns[level]
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if pattern != nil && !pattern.MatchString(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}

	s.collator.SortStrings(names)
	return names
}

// Projects lists project directories under the root. A directory counts
// as a project when it contains the all/scene subtree.
func (s *Scanner) Projects(root string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cacheKey{level: LevelProject, parent: root}
	if entry, ok := s.cache[key]; ok && s.now().Sub(entry.at) < s.ttl {
		return entry.names
	}

	names := []string{}
	entries, err := s.listDir(root)
	if err != nil {
		s.logger.Debug("project scan skipped", "path", root, "reason", err.Error())
		s.cache[key] = cacheEntry{names: names, at: s.now()}
		return names
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		scene := paths.SceneDir(root, entry.Name())
		if info, err := os.Stat(scene); err == nil && info.IsDir() {
			names = append(names, entry.Name())
		}
	}
	s.collator.SortStrings(names)

	s.cache[key] = cacheEntry{names: names, at: s.now()}
	return names
}

// Episodes lists a project's episodes.
func (s *Scanner) Episodes(root, project string) []string {
	return s.Children(LevelEpisode, paths.SceneDir(root, project))
}

// Sequences lists an episode's sequences.
func (s *Scanner) Sequences(root, project, episode string) []string {
	return s.Children(LevelSequence, paths.EpisodeDir(root, project, episode))
}

// Shots lists a sequence's shots.
func (s *Scanner) Shots(root, project, episode, sequence string) []string {
	return s.Children(LevelShot, paths.SequenceDir(root, project, episode, sequence))
}

// Departments lists a shot's departments. Departments are discovered from
// the filesystem; there is no static list.
func (s *Scanner) Departments(root string, ref shot.Ref) []string {
	return s.Children(LevelDepartment, paths.ShotDir(root, ref))
}

// Versions lists the version directories beneath dir.
func (s *Scanner) Versions(dir string) []string {
	return s.Children(LevelVersion, dir)
}

// LatestVersion returns the highest version directory beneath dir. The
// bool is false when no version directories exist.
func (s *Scanner) LatestVersion(dir string) (string, bool) {
	return versions.Latest(s.Versions(dir))
}

// ClearCache drops every cached listing.
func (s *Scanner) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = map[cacheKey]cacheEntry{}
}
