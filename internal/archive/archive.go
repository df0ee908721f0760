// Package archive pushes published output artifacts to a remote archive host
// over SFTP. Delivery is optional: it runs only when the experiment config
// carries an archive block.
package archive

import (
	"context"
	"fmt"
	"net"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"github.com/rs/zerolog/log"

	"github.com/NaureenBharwaniNOAA/ufs-srweather-app/internal/config"
)

// Config describes the archive destination, parsed from the experiment
// config's "workflow -> archive" block.
type Config struct {
	Host       string
	Port       int
	User       string
	KeyPath    string
	KnownHosts string
	DestDir    string
}

// FromTree extracts the archive configuration from a workflow block. The
// second return is false when no archive block is present, which means
// archiving is disabled for this experiment.
func FromTree(workflow config.Tree) (*Config, bool, error) {
	block, ok := workflow.Subtree("archive")
	if !ok {
		return nil, false, nil
	}
	cfg := &Config{Port: 22}
	var err error
	if cfg.Host, err = block.GetString("host"); err != nil {
		return nil, true, fmt.Errorf("archive config: %w", err)
	}
	if cfg.User, err = block.GetString("user"); err != nil {
		return nil, true, fmt.Errorf("archive config: %w", err)
	}
	if cfg.KeyPath, err = block.GetString("key_path"); err != nil {
		return nil, true, fmt.Errorf("archive config: %w", err)
	}
	if cfg.KnownHosts, err = block.GetString("known_hosts"); err != nil {
		return nil, true, fmt.Errorf("archive config: %w", err)
	}
	if cfg.DestDir, err = block.GetString("dest_dir"); err != nil {
		return nil, true, fmt.Errorf("archive config: %w", err)
	}
	if v, ok := block["port"]; ok {
		switch p := v.(type) {
		case int:
			cfg.Port = p
		case string:
			cfg.Port, err = strconv.Atoi(p)
			if err != nil {
				return nil, true, fmt.Errorf("archive config: bad port %q", p)
			}
		default:
			return nil, true, fmt.Errorf("archive config: bad port type %T", v)
		}
	}
	return cfg, true, nil
}

// Deliver uploads each file to the archive destination under its base name.
func Deliver(ctx context.Context, cfg *Config, files []string) error {
	signer, err := loadSigner(cfg.KeyPath)
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	kh, err := loadKnownHosts(cfg.KnownHosts)
	if err != nil {
		return fmt.Errorf("archive: load known hosts: %w", err)
	}
	c := &client{
		Addr:       net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		User:       cfg.User,
		Signer:     signer,
		KnownHosts: kh,
		Timeout:    30 * time.Second,
	}
	cli, err := dial(ctx, c)
	if err != nil {
		return fmt.Errorf("archive: dial %s: %w", c.Addr, err)
	}
	defer cli.Close()
	sf, err := sftp.NewClient(cli)
	if err != nil {
		return fmt.Errorf("archive: sftp client: %w", err)
	}
	defer sf.Close()
	for _, f := range files {
		remote := path.Join(cfg.DestDir, filepath.Base(f))
		log.Info().Str("local", f).Str("remote", remote).Msg("Archiving output file")
		if err := pushFile(sf, f, remote); err != nil {
			return fmt.Errorf("archive %s: %w", f, err)
		}
	}
	return nil
}
