package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Paths holds the resolved absolute directories of the application
type Paths struct {
	BaseDir   string
	DataDir   string
	ExportDir string
	LogsDir   string
}

// ResolvePaths anchors relative configured paths at baseDir. An empty baseDir
// means the working directory.
func ResolvePaths(cfg PathsConfig, baseDir string) (*Paths, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}
	baseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	resolve := func(p string) string {
		if p == "" {
			return ""
		}
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(baseDir, p)
	}
	return &Paths{
		BaseDir:   baseDir,
		DataDir:   resolve(cfg.DataDir),
		ExportDir: resolve(cfg.ExportDir),
		LogsDir:   resolve(cfg.LogsDir),
	}, nil
}

// EnsureDirectories creates the export and logs directories. The data
// directory must already exist.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ExportDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ExportPath returns the path of a file inside the export directory. Path
// separators in name are replaced so callers cannot escape the directory.
func (p *Paths) ExportPath(name string) string {
	return filepath.Join(p.ExportDir, SafeFileName(name))
}

// SafeFileName replaces path separators and other awkward characters.
func SafeFileName(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", "..", "_", " ", "_", ":", "_")
	return r.Replace(strings.TrimSpace(name))
}
