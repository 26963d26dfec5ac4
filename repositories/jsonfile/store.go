// Package jsonfile implements the configuration store as a JSON object on
// disk, keyed by provider name
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/upb/task-simplifier/models"
	"github.com/upb/task-simplifier/repositories"
)

// DefaultPath is the store location used when none is configured
const DefaultPath = "ai_config.json"

// Store reads and writes the configuration file
type Store struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

var _ repositories.ConfigRepository = (*Store)(nil)

// NewStore creates a store over path
func NewStore(path string, logger *zap.Logger) *Store {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Location returns the file path
func (s *Store) Location() string {
	return s.path
}

// Load implements repositories.ConfigRepository
func (s *Store) Load(ctx context.Context) (map[models.Provider]models.ProviderConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.readRaw()
	if err != nil {
		return nil, err
	}

	configs := make(map[models.Provider]models.ProviderConfig, len(raw))
	for key, value := range raw {
		provider := models.Provider(key)
		if !provider.Valid() {
			s.logger.Debug("skipping unknown provider key", zap.String("key", key))
			continue
		}

		var cfg models.ProviderConfig
		if err := json.Unmarshal(value, &cfg); err != nil {
			s.logger.Warn("skipping unreadable provider record",
				zap.String("provider", key),
				zap.Error(err),
			)
			continue
		}
		configs[provider] = cfg
	}

	return configs, nil
}

// Save implements repositories.ConfigRepository
func (s *Store) Save(ctx context.Context, provider models.Provider, cfg models.ProviderConfig) error {
	if !provider.Valid() {
		return fmt.Errorf("unsupported provider: %s", provider)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.readRaw()
	if err != nil {
		return err
	}

	record, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode %s record: %w", provider, err)
	}
	raw[provider.String()] = record

	return s.writeRaw(raw)
}

// Delete implements repositories.ConfigRepository
func (s *Store) Delete(ctx context.Context, provider models.Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.readRaw()
	if err != nil {
		return err
	}
	if _, ok := raw[provider.String()]; !ok {
		return nil
	}
	delete(raw, provider.String())

	return s.writeRaw(raw)
}

// readRaw returns the top-level object with values left undecoded, so that
// unknown keys survive a rewrite
func (s *Store) readRaw() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	raw := make(map[string]json.RawMessage)
	if len(bytes.TrimSpace(data)) == 0 {
		return raw, nil
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", repositories.ErrMalformedStore, s.path, err)
	}
	return raw, nil
}

// writeRaw replaces the file through a temp file and rename
func (s *Store) writeRaw(raw map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".ai_config-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
