package library

import (
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
)

// ErrInternalInconsistency signals that the lookup map and the
// serializable document tree have diverged. This is a defensive check
// that should never trigger.
var ErrInternalInconsistency = errors.New("module appears in map but not in document representation")

// DuplicateModuleError reports the same module name appearing twice in
// a stored library document, a data corruption signal.
type DuplicateModuleError struct {
	Name string
}

func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("repeated module name %q", e.Name)
}

// Insert registers a module name with its path. A duplicate name is
// rejected with a diagnostic; the original registration is untouched.
func (s *Store) Insert(name string, path string) bool {
	if _, exists := s.modules[name]; exists {
		log.Error("module already exists in library; if its path has changed first run \"unregister\"", "module", name)
		return false
	}
	s.modules[name] = path
	s.doc.Modules[name] = path
	return true
}

// Remove unregisters a module by name. A missing name yields false; a
// map/document mismatch yields ErrInternalInconsistency.
func (s *Store) Remove(name string) (bool, error) {
	if _, exists := s.modules[name]; !exists {
		return false, nil
	}
	if _, exists := s.doc.Modules[name]; !exists {
		return false, ErrInternalInconsistency
	}
	delete(s.modules, name)
	delete(s.doc.Modules, name)
	return true, nil
}

// Find yields the registered path of a module.
func (s *Store) Find(name string) (path string, exists bool) {
	path, exists = s.modules[name]
	return
}

func (s *Store) Size() int {
	return len(s.modules)
}

// VisitAll calls visitor for every (name, path) pair in name order.
func (s *Store) VisitAll(visitor func(name string, path string)) {
	names := make([]string, 0, len(s.modules))
	for name := range s.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		visitor(name, s.modules[name])
	}
}

// Version yields the version string of the loaded document.
func (s *Store) Version() string {
	return s.doc.Version
}

// CondaSource yields the conda installation path stored in the
// driver namespace, or "" if unset.
func (s *Store) CondaSource() string {
	value, _ := s.doc.Driver[condaSourceKey].(string)
	return value
}

func (s *Store) SetCondaSource(path string) {
	s.doc.Driver[condaSourceKey] = path
}

// EnvRoot yields the conda environment root stored in the driver
// namespace, or "" if unset.
func (s *Store) EnvRoot() string {
	value, _ := s.doc.Driver[condaEnvRootKey].(string)
	return value
}

func (s *Store) SetEnvRoot(path string) {
	s.doc.Driver[condaEnvRootKey] = path
}

// ClearCondaSettings drops both conda keys from the driver namespace.
func (s *Store) ClearCondaSettings() {
	delete(s.doc.Driver, condaSourceKey)
	delete(s.doc.Driver, condaEnvRootKey)
}
