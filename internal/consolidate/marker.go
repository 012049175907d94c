package consolidate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Marker durably records the last calendar day each daily action
// completed. The scheduler consults it before firing, which makes the
// daily cycle idempotent across restarts, slow ticks and duplicate
// timers: an action runs at most once per day and a failed run leaves
// the marker untouched for the next tick to retry.
type Marker struct {
	path string

	mu    sync.Mutex
	state markerState
}

type markerState struct {
	LastCommitDate string `json:"lastCommitDate"`
	LastEvolveDate string `json:"lastEvolveDate"`
}

func NewMarker(path string) (*Marker, error) {
	m := &Marker{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("read marker: %w", err)
	}
	if err := json.Unmarshal(data, &m.state); err != nil {
		return nil, fmt.Errorf("parse marker: %w", err)
	}
	return m, nil
}

func (m *Marker) LastCommitDate() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.LastCommitDate
}

func (m *Marker) LastEvolveDate() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.LastEvolveDate
}

func (m *Marker) SetCommitDate(date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.LastCommitDate = date
	return m.save()
}

func (m *Marker) SetEvolveDate(date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.LastEvolveDate = date
	return m.save()
}

func (m *Marker) save() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("create marker dir: %w", err)
	}
	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal marker: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("write marker: %w", err)
	}
	return nil
}
