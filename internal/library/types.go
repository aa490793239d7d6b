package library

// FileName is the well-known library filename inside the user's home directory.
const FileName = ".cmeclibrary"

// DriverVersion is the version string recorded in freshly created
// libraries and compared against the version found on load.
// Comparison is plain lexicographic string ordering. That is only
// correct because released versions are fixed-width numeric date
// strings (e.g. "20201114"); see the load version gate.
const DriverVersion = "20201114"

// reserved namespace keys (conda tooling locations, see Setup)
const (
	condaSourceKey  = "conda_source"
	condaEnvRootKey = "conda_env_root"
)

// Store owns the persistent mapping of module name to registration path.
// The serializable document tree (doc) and the lookup map (modules) are
// maintained in lockstep; Remove checks that invariant.
type Store struct {
	pathOverride string //absolute library file path, empty for default resolution
	path         string //resolved on demand
	modules      map[string]string
	doc          jsonLibrary
}

// NewStore creates an empty in-memory store. pathOverride forces the
// library file location; pass "" for the home-directory default.
func NewStore(pathOverride string) *Store {
	s := &Store{pathOverride: pathOverride}
	s.clear()
	return s
}

func (s *Store) clear() {
	s.path = ""
	s.modules = make(map[string]string)
	s.doc = jsonLibrary{
		Version: DriverVersion,
		Driver:  make(map[string]interface{}),
		Modules: make(map[string]string),
	}
}
