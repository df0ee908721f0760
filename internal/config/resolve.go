package config

import (
	"errors"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog/log"
)

// ErrEmptyKeyPath is returned when Resolve is called with no keys.
var ErrEmptyKeyPath = errors.New("key path must contain at least one key")

// MissingKeyError reports a key absent at its position in the path. Trail is
// the " -> " joined prefix up to and including the missing key.
type MissingKeyError struct {
	Trail      string
	Key        string
	Suggestion string
}

func (e *MissingKeyError) Error() string {
	msg := "bad config path: " + e.Trail
	if e.Suggestion != "" {
		msg += " (did you mean " + e.Suggestion + "?)"
	}
	return msg
}

// TypeMismatchError reports a scalar or sequence where a nested mapping was
// required.
type TypeMismatchError struct {
	Trail string
}

func (e *TypeMismatchError) Error() string {
	return "value at " + e.Trail + " must be a mapping"
}

// Resolve walks the configuration tree along keyPath and returns the subtree
// at the end of it. Every key on the path must name a nested mapping; the
// first violation fails the walk with a trail identifying how far it got.
func Resolve(tree Tree, keyPath []string) (Tree, error) {
	if len(keyPath) == 0 {
		return nil, ErrEmptyKeyPath
	}
	trail := make([]string, 0, len(keyPath))
	for _, key := range keyPath {
		trail = append(trail, key)
		pathstr := strings.Join(trail, " -> ")
		v, ok := tree[key]
		if !ok {
			err := &MissingKeyError{Trail: pathstr, Key: key, Suggestion: closestKey(key, tree)}
			log.Error().Str("path", pathstr).Msg("bad config path")
			return nil, err
		}
		sub, ok := asTree(v)
		if !ok {
			log.Error().Str("path", pathstr).Msg("value must be a mapping")
			return nil, &TypeMismatchError{Trail: pathstr}
		}
		tree = sub
	}
	return tree, nil
}

// closestKey returns the sibling key nearest to key by edit distance, for
// diagnostics only. Keys further than two edits away are not suggested.
func closestKey(key string, tree Tree) string {
	best := ""
	bestDist := 3
	for k := range tree {
		d := levenshtein.ComputeDistance(key, k)
		if d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}
