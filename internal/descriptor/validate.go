package descriptor

import (
	"encoding/json"
	"fmt"
	"os"
)

// Kind identifies the JSON value kind expected behind a required key.
type Kind int

const (
	KindString Kind = iota
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	}
	return "unknown"
}

// ParseError reports that a descriptor file is not valid JSON.
// Offset is the byte position of the syntax error where available, -1 otherwise.
type ParseError struct {
	File   string
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("malformed file %s: %s at byte position %d", e.File, e.Err, e.Offset)
	}
	return fmt.Sprintf("malformed file %s: %s", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MalformedError reports a required key that is absent or not of the expected kind.
// Key is the full key path, e.g. "settings:name".
type MalformedError struct {
	File    string
	Key     string
	Kind    Kind
	Missing bool
}

func (e *MalformedError) Error() string {
	if e.Missing {
		return fmt.Sprintf("malformed file %s: missing key %q", e.File, e.Key)
	}
	return fmt.Sprintf("malformed file %s: %q is not of type %s", e.File, e.Key, e.Kind)
}

// parseFile reads the file at path into a generic JSON object.
func parseFile(path string) (map[string]interface{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{File: path, Offset: -1, Err: err}
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		offset := int64(-1)
		if syntaxErr, ok := err.(*json.SyntaxError); ok {
			offset = syntaxErr.Offset
		}
		return nil, &ParseError{File: path, Offset: offset, Err: err}
	}
	object, ok := doc.(map[string]interface{})
	if !ok {
		return nil, &MalformedError{File: path, Key: "(document)", Kind: KindObject}
	}
	return object, nil
}

// requireKey checks that object contains key with a value of the given kind
// and returns the value. keyPath is used for error reporting only.
func requireKey(file string, object map[string]interface{}, key string, keyPath string, kind Kind) (interface{}, error) {
	value, present := object[key]
	if !present {
		return nil, &MalformedError{File: file, Key: keyPath, Kind: kind, Missing: true}
	}
	switch kind {
	case KindString:
		if _, ok := value.(string); !ok {
			return nil, &MalformedError{File: file, Key: keyPath, Kind: kind}
		}
	case KindObject:
		if _, ok := value.(map[string]interface{}); !ok {
			return nil, &MalformedError{File: file, Key: keyPath, Kind: kind}
		}
	case KindArray:
		if _, ok := value.([]interface{}); !ok {
			return nil, &MalformedError{File: file, Key: keyPath, Kind: kind}
		}
	}
	return value, nil
}

func requireString(file string, object map[string]interface{}, key string, keyPath string) (string, error) {
	value, err := requireKey(file, object, key, keyPath, KindString)
	if err != nil {
		return "", err
	}
	return value.(string), nil
}

func requireObject(file string, object map[string]interface{}, key string, keyPath string) (map[string]interface{}, error) {
	value, err := requireKey(file, object, key, keyPath, KindObject)
	if err != nil {
		return nil, err
	}
	return value.(map[string]interface{}), nil
}

func requireArray(file string, object map[string]interface{}, key string, keyPath string) ([]interface{}, error) {
	value, err := requireKey(file, object, key, keyPath, KindArray)
	if err != nil {
		return nil, err
	}
	return value.([]interface{}), nil
}
