package bans

import (
	"context"
	"fmt"
	"os"

	"github.com/vytor/hvladder/internal/logger"
	"gopkg.in/yaml.v3"
)

// Entry is one banned account. A bare profile id in the list decodes to an
// Entry with only ProfileID set.
type Entry struct {
	ProfileID int64  `yaml:"profile_id"`
	Name      string `yaml:"name"`
	Reason    string `yaml:"reason"`
}

func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&e.ProfileID)
	}
	type plain Entry
	return node.Decode((*plain)(e))
}

// File is a ban list stored as YAML.
type File struct {
	path string
}

// NewFile returns a ban source reading path. An empty path bans nobody.
func NewFile(path string) *File {
	return &File{path: path}
}

// Banned returns the set of banned profile ids.
func (f *File) Banned(ctx context.Context) (map[int64]bool, error) {
	if f.path == "" {
		return map[int64]bool{}, nil
	}
	log := logger.FromContext(ctx).WithPrefix("bans")

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read ban list: %w", err)
	}
	entries, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse ban list %s: %w", f.path, err)
	}

	banned := make(map[int64]bool, len(entries))
	for _, e := range entries {
		banned[e.ProfileID] = true
	}
	log.Debug("loaded %d banned profiles from %s", len(banned), f.path)
	return banned, nil
}

// Parse decodes a ban list document.
func Parse(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	for i, e := range entries {
		if e.ProfileID <= 0 {
			return nil, fmt.Errorf("entry %d: invalid profile_id %d", i+1, e.ProfileID)
		}
	}
	return entries, nil
}
