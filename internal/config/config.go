package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Tree is a parsed experiment configuration: a mapping from string keys to
// scalars, sequences, or nested Trees. It is loaded once per run and treated
// as read-only afterwards.
type Tree map[string]any

// Load reads the experiment YAML configuration from a path.
func Load(path string) (Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var tree Tree
	if err := yaml.Unmarshal(content, &tree); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return tree, nil
}

// GetString returns the scalar string value at key, or an error naming the
// key if it is absent or not a string.
func (t Tree) GetString(key string) (string, error) {
	v, ok := t[key]
	if !ok {
		return "", fmt.Errorf("config key %q not found", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("config key %q is not a string (got %T)", key, v)
	}
	return s, nil
}

// Subtree returns the nested Tree at key, if present.
func (t Tree) Subtree(key string) (Tree, bool) {
	v, ok := t[key]
	if !ok {
		return nil, false
	}
	sub, ok := asTree(v)
	return sub, ok
}

// asTree normalizes the mapping shapes yaml.v3 produces into a Tree.
func asTree(v any) (Tree, bool) {
	switch m := v.(type) {
	case Tree:
		return m, true
	case map[string]any:
		return Tree(m), true
	default:
		return nil, false
	}
}
