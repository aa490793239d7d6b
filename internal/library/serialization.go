package library

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// jsonLibrary is the on-disk document shape:
//
//	{ "version": "...", "cmec-driver": {...}, "modules": { name: path } }
//
// The "cmec-driver" namespace carries driver-owned settings (conda
// tooling locations); unknown keys inside it are preserved verbatim.
type jsonLibrary struct {
	Version string                 `json:"version"`
	Driver  map[string]interface{} `json:"cmec-driver"`
	Modules map[string]string      `json:"modules"`
}

// MalformedLibraryError reports a library document with a missing or
// mistyped top-level key.
type MalformedLibraryError struct {
	File string
	Key  string
	Kind string
}

func (e *MalformedLibraryError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("malformed library file %s: missing key %q", e.File, e.Key)
	}
	return fmt.Sprintf("malformed library file %s: %q is not of type %s", e.File, e.Key, e.Kind)
}

// decodeDocument validates the top-level document shape. The modules
// object is decoded via the token stream so that a repeated module name
// (which plain unmarshalling would silently collapse) is caught.
func decodeDocument(file string, raw []byte) (jsonLibrary, map[string]string, error) {
	var shape struct {
		Version *json.RawMessage `json:"version"`
		Driver  *json.RawMessage `json:"cmec-driver"`
		Modules *json.RawMessage `json:"modules"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		return jsonLibrary{}, nil, err
	}

	doc := jsonLibrary{}

	if shape.Version == nil {
		return doc, nil, &MalformedLibraryError{File: file, Key: "version"}
	}
	if err := json.Unmarshal(*shape.Version, &doc.Version); err != nil {
		return doc, nil, &MalformedLibraryError{File: file, Key: "version", Kind: "string"}
	}

	if shape.Driver == nil {
		return doc, nil, &MalformedLibraryError{File: file, Key: "cmec-driver"}
	}
	if err := json.Unmarshal(*shape.Driver, &doc.Driver); err != nil {
		return doc, nil, &MalformedLibraryError{File: file, Key: "cmec-driver", Kind: "object"}
	}

	if shape.Modules == nil {
		return doc, nil, &MalformedLibraryError{File: file, Key: "modules"}
	}
	modules, err := decodeModules(file, *shape.Modules)
	if err != nil {
		return doc, nil, err
	}
	doc.Modules = make(map[string]string, len(modules))
	for name, path := range modules {
		doc.Modules[name] = path
	}
	return doc, modules, nil
}

func decodeModules(file string, raw json.RawMessage) (map[string]string, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	open, err := decoder.Token()
	if err != nil {
		return nil, &MalformedLibraryError{File: file, Key: "modules", Kind: "object"}
	}
	if delim, ok := open.(json.Delim); !ok || delim != '{' {
		return nil, &MalformedLibraryError{File: file, Key: "modules", Kind: "object"}
	}

	modules := make(map[string]string)
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return nil, &MalformedLibraryError{File: file, Key: "modules", Kind: "object"}
		}
		name := keyToken.(string) //object keys are always strings
		var path string
		if err := decoder.Decode(&path); err != nil {
			return nil, &MalformedLibraryError{File: file, Key: "modules:" + name, Kind: "string"}
		}
		if _, repeated := modules[name]; repeated {
			return nil, &DuplicateModuleError{Name: name}
		}
		modules[name] = path
	}
	return modules, nil
}
