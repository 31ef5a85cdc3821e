package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SceneEntry is one row of scene_list.yaml. Rows are listed in build order;
// the row position is the scene index.
type SceneEntry struct {
	Path string `yaml:"path"`
	Note string `yaml:"note"`
}

// SceneTable is the ordered list of known scenes.
type SceneTable struct {
	entries []SceneEntry
}

// LoadSceneTable loads scene_list.yaml.
func LoadSceneTable(path string) (*SceneTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene list: %w", err)
	}
	return ParseSceneTable(raw)
}

// ParseSceneTable decodes a scene list document.
func ParseSceneTable(raw []byte) (*SceneTable, error) {
	var entries []SceneEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse scene list: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("scene list is empty")
	}
	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		if e.Path == "" {
			return nil, fmt.Errorf("scene %d has no path", i)
		}
		if prev, ok := seen[e.Path]; ok {
			return nil, fmt.Errorf("scene %q listed twice (%d and %d)", e.Path, prev, i)
		}
		seen[e.Path] = i
	}
	return &SceneTable{entries: entries}, nil
}

// NewSceneTable builds a table from paths in build order.
func NewSceneTable(paths ...string) *SceneTable {
	entries := make([]SceneEntry, len(paths))
	for i, p := range paths {
		entries[i] = SceneEntry{Path: p}
	}
	return &SceneTable{entries: entries}
}

// Paths returns the scene paths in index order.
func (t *SceneTable) Paths() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Path
	}
	return out
}

// Get returns the entry at index, or nil when out of range.
func (t *SceneTable) Get(index int) *SceneEntry {
	if index < 0 || index >= len(t.entries) {
		return nil
	}
	return &t.entries[index]
}

// Count returns the number of scenes loaded.
func (t *SceneTable) Count() int {
	return len(t.entries)
}
