// Package publish delivers run output artifacts into a shared directory by
// symbolic link.
package publish

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// DestinationNotFoundError reports a missing or non-directory destination.
type DestinationNotFoundError struct {
	Dir string
}

func (e *DestinationNotFoundError) Error() string {
	return fmt.Sprintf("destination directory does not exist: %s", e.Dir)
}

// LinkExistsError reports a destination name already occupied by something
// other than a symbolic link. Replacing a real file would destroy data the
// linker does not own, so this fails instead of guessing.
type LinkExistsError struct {
	Link string
}

func (e *LinkExistsError) Error() string {
	return fmt.Sprintf("refusing to replace non-symlink at %s", e.Link)
}

// LinkCreationError reports a failed symlink creation.
type LinkCreationError struct {
	Link   string
	Target string
	Err    error
}

func (e *LinkCreationError) Error() string {
	return fmt.Sprintf("create link %s -> %s: %v", e.Link, e.Target, e.Err)
}

func (e *LinkCreationError) Unwrap() error { return e.Err }

// Publish links every source file into destDir under its base name. A
// pre-existing symlink at a destination name is removed first, so repeated
// calls with the same sources are no-ops in effect. Sources are resolved to
// absolute paths so the links survive working-directory changes.
func Publish(destDir string, sources []string) error {
	fi, err := os.Stat(destDir)
	if err != nil || !fi.IsDir() {
		return &DestinationNotFoundError{Dir: destDir}
	}
	for _, src := range sources {
		target, err := filepath.Abs(src)
		if err != nil {
			return fmt.Errorf("resolve source path %s: %w", src, err)
		}
		link := filepath.Join(destDir, filepath.Base(target))
		if info, err := os.Lstat(link); err == nil {
			if info.Mode()&os.ModeSymlink == 0 {
				return &LinkExistsError{Link: link}
			}
			if err := os.Remove(link); err != nil {
				return &LinkCreationError{Link: link, Target: target, Err: err}
			}
		}
		log.Info().Str("link", link).Str("target", target).Msg("Linking output file")
		if err := os.Symlink(target, link); err != nil {
			return &LinkCreationError{Link: link, Target: target, Err: err}
		}
	}
	return nil
}
