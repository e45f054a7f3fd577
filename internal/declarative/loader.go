package declarative

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"lens-engine/internal/domain"
)

// LoadOptions configures YAML loading behavior.
type LoadOptions struct {
	AllowUnknownFields bool
}

// LoadFile reads and decodes a workspace file.
func LoadFile(path string, opts LoadOptions) (*WorkspaceDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := Decode(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Decode parses a workspace document and checks its apiVersion and kind.
func Decode(data []byte, opts LoadOptions) (*WorkspaceDoc, error) {
	var doc WorkspaceDoc
	if opts.AllowUnknownFields {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
	} else {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
	}
	if err := validateDocument(doc.APIVersion, doc.Kind); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadState reads a workspace file and converts it into editing state.
func LoadState(path string, opts LoadOptions) (domain.State, error) {
	doc, err := LoadFile(path, opts)
	if err != nil {
		return domain.State{}, err
	}
	state, err := ToState(doc)
	if err != nil {
		return domain.State{}, fmt.Errorf("%s: %w", path, err)
	}
	return state, nil
}

// Marshal encodes state as a workspace document.
func Marshal(state domain.State) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(FromState(state)); err != nil {
		return nil, fmt.Errorf("encode workspace: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode workspace: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveState writes state to path. The file is replaced in one rename so
// readers never observe a partially written workspace.
func SaveState(path string, state domain.State) error {
	data, err := Marshal(state)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".lens-workspace-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// validateDocument checks the apiVersion and kind fields.
func validateDocument(apiVersion, kind string) error {
	if apiVersion != SupportedAPIVersion {
		return fmt.Errorf("unsupported apiVersion %q (expected %q)", apiVersion, SupportedAPIVersion)
	}
	if kind != KindWorkspace {
		return fmt.Errorf("unexpected kind %q (expected %q)", kind, KindWorkspace)
	}
	return nil
}
