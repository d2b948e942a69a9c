package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"timegate/internal/config"
	"timegate/internal/domain"
	"timegate/internal/logging"
)

// FileRepository implements domain.ConfigRepository on top of a TOML file.
// The active snapshot is swapped atomically so readers never see a partial
// reload. This is a secondary adapter.
type FileRepository struct {
	path    string
	mu      sync.Mutex // serialises Load/Reload
	current atomic.Pointer[config.Config]
}

// NewFileRepository loads path, creating it with defaults when missing.
func NewFileRepository(path string) (*FileRepository, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}
	r := &FileRepository{path: path}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Path returns the configuration file location.
func (r *FileRepository) Path() string {
	return r.path
}

// Reload re-reads the file and swaps the snapshot. On error the previous
// snapshot stays in effect.
func (r *FileRepository) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := Load(r.path)
	if err != nil {
		return err
	}
	cfg := config.Build(f)
	r.current.Store(&cfg)
	logging.Infof("loaded %s: %d windows, timezone %s", r.path, len(cfg.Schedule.Windows), cfg.Schedule.Location)
	return nil
}

// Current returns the active snapshot.
func (r *FileRepository) Current() config.Config {
	return *r.current.Load()
}

// Schedule returns the active schedule.
func (r *FileRepository) Schedule() domain.Schedule {
	return r.current.Load().Schedule
}

// Messages returns the active client-facing messages.
func (r *FileRepository) Messages() domain.Messages {
	return r.current.Load().Messages
}

// Load reads path, writing the defaults first if it does not exist.
func Load(path string) (config.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return config.File{}, fmt.Errorf("read config: %w", err)
		}
		logging.Warnf("config %s not found, writing defaults", path)
		def := config.DefaultFile()
		if err := Save(path, def); err != nil {
			return config.File{}, err
		}
		return def, nil
	}
	return config.Decode(data)
}

// Save writes f to path atomically, creating parent directories.
func Save(path string, f config.File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := config.Encode(f)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}
