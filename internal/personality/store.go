package personality

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store holds the current trait state across restarts.
type Store interface {
	Get() (State, error)
	Replace(State) error
}

// FileStore keeps the state as a small JSON document. A missing file
// yields the seed state, so a fresh install starts from the persona.
type FileStore struct {
	path string
	seed State
}

func NewFileStore(path string, seed State) *FileStore {
	return &FileStore{path: path, seed: seed.Normalize()}
}

func (f *FileStore) Get() (State, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return f.seed, nil
		}
		return State{}, fmt.Errorf("read personality state: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("parse personality state: %w", err)
	}
	return s.Normalize(), nil
}

func (f *FileStore) Replace(s State) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(s.Normalize(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal personality state: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("write personality state: %w", err)
	}
	return nil
}
