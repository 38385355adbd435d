// Package transport reaches the approval server over HTTP: endpoint
// discovery across candidate base URLs and paths, HTML sniffing to reject
// captive portals, and the request client used by the lifecycle service.
package transport

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/softgatehq/softgate/internal/agent/repositories/metadata"
)

// State is the discovered endpoint, persisted between runs. Either field may
// be empty; partial state (base known, path not yet probed) is kept and
// reused.
type State struct {
	BaseURL    string `json:"base_url"`
	SubmitPath string `json:"submit_path"`
}

// StateStore persists discovery state. Implementations must tolerate an
// empty store (first run).
type StateStore interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, s State) error
}

const stateKey = "endpoint_state"

// MetadataStateStore keeps the discovery state in the agent's metadata table.
type MetadataStateStore struct {
	repo metadata.Repository
}

func NewMetadataStateStore(repo metadata.Repository) *MetadataStateStore {
	return &MetadataStateStore{repo: repo}
}

func (s *MetadataStateStore) Load(ctx context.Context) (State, error) {
	raw, err := s.repo.Get(ctx, stateKey)
	if err != nil {
		return State{}, fmt.Errorf("load endpoint state: %w", err)
	}
	if len(raw) == 0 {
		return State{}, nil
	}
	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		// A corrupt state entry is equivalent to no state.
		return State{}, nil
	}
	return state, nil
}

func (s *MetadataStateStore) Save(ctx context.Context, state State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := s.repo.Set(ctx, stateKey, raw); err != nil {
		return fmt.Errorf("save endpoint state: %w", err)
	}
	return nil
}

// MemoryStateStore is an in-process StateStore for tests and one-shot runs.
type MemoryStateStore struct {
	state State
}

func (s *MemoryStateStore) Load(ctx context.Context) (State, error) { return s.state, nil }

func (s *MemoryStateStore) Save(ctx context.Context, state State) error {
	s.state = state
	return nil
}
