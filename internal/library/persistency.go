package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// EnvironmentError reports that no usable home directory could be
// determined for locating the library file.
type EnvironmentError struct {
	Reason string
}

func (e *EnvironmentError) Error() string {
	return "cannot locate library file: " + e.Reason
}

// VersionMismatchError reports a stored library whose version string is
// newer than the running driver's.
type VersionMismatchError struct {
	Stored string
	Driver string
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("library file version %q is greater than driver version %q", e.Stored, e.Driver)
}

// HomeDirectory resolves the current user's home directory from the
// environment, falling back to the password database.
func HomeDirectory() (string, error) {
	if home := os.Getenv("HOME"); home != "" {
		if stat, err := os.Stat(home); err != nil || !stat.IsDir() {
			return "", &EnvironmentError{Reason: "environment variable $HOME points to an invalid home directory path"}
		}
		return home, nil
	}
	current, err := user.Current()
	if err != nil || current.HomeDir == "" {
		return "", &EnvironmentError{Reason: "neither $HOME nor the password database yield a home directory"}
	}
	if stat, err := os.Stat(current.HomeDir); err != nil || !stat.IsDir() {
		return "", &EnvironmentError{Reason: "password database points to an invalid home directory path"}
	}
	return current.HomeDir, nil
}

// Locate resolves and caches the library file location.
func (s *Store) Locate() (string, error) {
	if s.path != "" {
		return s.path, nil
	}
	if s.pathOverride != "" {
		s.path = s.pathOverride
		return s.path, nil
	}
	home, err := HomeDirectory()
	if err != nil {
		return "", err
	}
	s.path = filepath.Join(home, FileName)
	return s.path, nil
}

// Load clears the in-memory state and reads the library file, creating
// a fresh library document first if none exists yet. The auto-create on
// first use is a convenience, not an error path.
func (s *Store) Load() error {
	s.clear()

	path, err := s.Locate()
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		log.Info("CMEC library not found; creating new library", "file", path)
		if err := s.Save(); err != nil {
			return err
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading library file %s failed: %w", path, err)
	}
	doc, modules, err := decodeDocument(path, raw)
	if err != nil {
		return err
	}

	// Plain string ordering; only correct for fixed-width numeric
	// date versions.
	if doc.Version > DriverVersion {
		return &VersionMismatchError{Stored: doc.Version, Driver: DriverVersion}
	}

	s.doc = doc
	if s.doc.Driver == nil {
		s.doc.Driver = make(map[string]interface{})
	}
	s.modules = modules
	return nil
}

// Save serializes the document tree to the library file. The write
// truncates in place; a crash mid-write can corrupt the library.
func (s *Store) Save() error {
	path, err := s.Locate()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("serializing library failed: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("writing library file %s failed: %w", path, err)
	}
	return nil
}
