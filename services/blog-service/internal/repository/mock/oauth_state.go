package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/repository"
)

type stateEntry struct {
	provider  string
	expiresAt time.Time
}

type OAuthStateRepository struct {
	mu     sync.Mutex
	states map[string]stateEntry
}

func NewOAuthStateRepository() *OAuthStateRepository {
	return &OAuthStateRepository{states: map[string]stateEntry{}}
}

func (r *OAuthStateRepository) SaveState(_ context.Context, state, provider string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.states[state]; ok {
		return fmt.Errorf("oauth state %q already exists", state)
	}
	r.states[state] = stateEntry{provider: provider, expiresAt: time.Now().Add(ttl)}

	return nil
}

func (r *OAuthStateRepository) ConsumeState(_ context.Context, state string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.states[state]
	delete(r.states, state)
	if !ok || time.Now().After(entry.expiresAt) {
		return "", repository.ErrOAuthStateInvalid
	}

	return entry.provider, nil
}

// States returns the states currently held, for assertions.
func (r *OAuthStateRepository) States() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	states := make([]string, 0, len(r.states))
	for state := range r.states {
		states = append(states, state)
	}

	return states
}
