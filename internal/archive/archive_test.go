package archive

import (
	"testing"

	"github.com/NaureenBharwaniNOAA/ufs-srweather-app/internal/config"
)

func TestFromTreeAbsentBlock(t *testing.T) {
	cfg, enabled, err := FromTree(config.Tree{"FIXlam": "/out"})
	if err != nil {
		t.Fatalf("FromTree failed: %v", err)
	}
	if enabled {
		t.Error("Expected archiving disabled without an archive block")
	}
	if cfg != nil {
		t.Error("Expected nil config without an archive block")
	}
}

func TestFromTreeFullBlock(t *testing.T) {
	workflow := config.Tree{
		"archive": map[string]any{
			"host":        "archive.example.gov",
			"port":        2222,
			"user":        "fcst",
			"key_path":    "/home/fcst/.ssh/id_ed25519",
			"known_hosts": "/home/fcst/.ssh/known_hosts",
			"dest_dir":    "/archive/fix_lam",
		},
	}

	cfg, enabled, err := FromTree(workflow)
	if err != nil {
		t.Fatalf("FromTree failed: %v", err)
	}
	if !enabled {
		t.Fatal("Expected archiving enabled")
	}
	if cfg.Host != "archive.example.gov" {
		t.Errorf("Expected host 'archive.example.gov', got '%s'", cfg.Host)
	}
	if cfg.Port != 2222 {
		t.Errorf("Expected port 2222, got %d", cfg.Port)
	}
	if cfg.DestDir != "/archive/fix_lam" {
		t.Errorf("Expected dest_dir '/archive/fix_lam', got '%s'", cfg.DestDir)
	}
}

func TestFromTreeDefaultPort(t *testing.T) {
	workflow := config.Tree{
		"archive": map[string]any{
			"host":        "archive.example.gov",
			"user":        "fcst",
			"key_path":    "/k",
			"known_hosts": "/kh",
			"dest_dir":    "/archive",
		},
	}

	cfg, _, err := FromTree(workflow)
	if err != nil {
		t.Fatalf("FromTree failed: %v", err)
	}
	if cfg.Port != 22 {
		t.Errorf("Expected default port 22, got %d", cfg.Port)
	}
}

func TestFromTreeIncompleteBlock(t *testing.T) {
	workflow := config.Tree{
		"archive": map[string]any{"host": "archive.example.gov"},
	}

	_, enabled, err := FromTree(workflow)
	if err == nil {
		t.Error("Expected error for incomplete archive block")
	}
	if !enabled {
		t.Error("An incomplete block still means archiving was requested")
	}
}
