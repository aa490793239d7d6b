// Package userconfig maintains the per-user cmec.json file that
// aggregates each registered module's default parameters. The file is
// shared with the modules themselves (they read it at run time via
// CMEC_CONFIG_DIR), so it is handled as a read-modify-write JSON
// document rather than application-owned configuration.
package userconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// FileName is the well-known user configuration filename.
const FileName = "cmec.json"

// DirName is the well-known directory below the user's home.
const DirName = ".cmec"

// Store is a handle on the user configuration file.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path yields the configuration file location.
func (s *Store) Path() string {
	return s.path
}

// Dir yields the directory containing the configuration file, exported
// to driver scripts as CMEC_CONFIG_DIR.
func (s *Store) Dir() string {
	return filepath.Dir(s.path)
}

// SetDefaults writes the given default parameters under entry
// ("Name" or "Module/Configuration"). An existing file that cannot be
// parsed is overwritten only if overwriteCorrupt approves.
func (s *Store) SetDefaults(entry string, params map[string]interface{}, overwriteCorrupt func(question string) bool) error {
	if params == nil {
		params = map[string]interface{}{}
	}

	settings, err := s.read()
	if err != nil {
		question := fmt.Sprintf("Could not load %s. File might not be valid JSON. Overwrite?", s.path)
		if overwriteCorrupt == nil || !overwriteCorrupt(question) {
			log.Warn("skip writing default parameters; this may affect module performance", "file", s.path)
			return nil
		}
		settings = map[string]interface{}{}
	}
	settings[entry] = params
	return s.write(settings)
}

// RemoveDefaults drops the entry for an unregistered module. An
// unparsable file is left alone with a warning.
func (s *Store) RemoveDefaults(entry string) error {
	if _, statErr := os.Stat(s.path); errors.Is(statErr, os.ErrNotExist) {
		return nil
	}
	settings, err := s.read()
	if err != nil {
		log.Warn("could not load user configuration, skipping clean up", "file", s.path, "reason", err)
		return nil
	}
	if _, present := settings[entry]; !present {
		return nil
	}
	delete(settings, entry)
	return s.write(settings)
}

func (s *Store) read() (map[string]interface{}, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]interface{}{}, nil
	}
	if err != nil {
		return nil, err
	}
	var settings map[string]interface{}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, err
	}
	if settings == nil {
		settings = map[string]interface{}{}
	}
	return settings, nil
}

func (s *Store) write(settings map[string]interface{}) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating user configuration directory failed: %w", err)
	}
	raw, err := json.MarshalIndent(settings, "", "    ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("writing user configuration %s failed: %w", s.path, err)
	}
	return nil
}
