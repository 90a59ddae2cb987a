package board

import (
	"context"
	"sync"

	"taskboard/internal/model"
)

// Repo is the interface for board state persistence.
type Repo interface {
	// Load returns the current board state. Callers own the returned value.
	Load(ctx context.Context) (model.State, error)

	// Save persists the board state.
	Save(ctx context.Context, st model.State) error
}

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu    sync.RWMutex
	state *model.State
}

// NewMemoryRepo creates a new in-memory board repository.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Load returns the board state, seeding defaults on first use.
func (r *MemoryRepo) Load(_ context.Context) (model.State, error) {
	r.mu.RLock()
	if r.state != nil {
		defer r.mu.RUnlock()
		return r.state.Clone(), nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if r.state == nil {
		st := model.NewState()
		r.state = &st
	}
	return r.state.Clone(), nil
}

// Save persists the board state.
func (r *MemoryRepo) Save(_ context.Context, st model.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := st.Clone()
	r.state = &cp
	return nil
}
