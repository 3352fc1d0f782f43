// Package session manages concurrent conversations over one shared agent.
package session

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/stavik/jambot/internal/app/agent"
)

// ErrSessionNotFound means the session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// Session is one conversation. Its mutex serializes turns, which is what
// lets the state layer below stay lock-free.
type Session struct {
	ID    string
	mu    sync.Mutex
	state *agent.State
}

// Handle runs one turn against this session, exclusively.
func (s *Session) Handle(ctx context.Context, a *agent.Agent, utterance string) agent.Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return a.HandleUtterance(ctx, s.state, utterance)
}

// Registry tracks live sessions by id.
type Registry struct {
	mu       sync.RWMutex
	agent    *agent.Agent
	sessions map[string]*Session
}

// NewRegistry creates an empty registry bound to an agent.
func NewRegistry(a *agent.Agent) *Registry {
	return &Registry{
		agent:    a,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session and returns it with the welcome response.
func (r *Registry) Create() (*Session, agent.Response) {
	s := &Session{
		ID:    uuid.New().String(),
		state: r.agent.NewState(),
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	zlog.Info().Str("session_id", s.ID).Msg("session created")
	return s, r.agent.Welcome()
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.Wrapf(ErrSessionNotFound, "id %q", id)
	}
	return s, nil
}

// Remove drops a session, typically after a final turn.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	zlog.Info().Str("session_id", id).Msg("session removed")
}

// Handle runs one turn against the identified session. Final turns remove
// the session from the registry.
func (r *Registry) Handle(ctx context.Context, id, utterance string) (agent.Response, error) {
	s, err := r.Get(id)
	if err != nil {
		return agent.Response{}, err
	}
	resp := s.Handle(ctx, r.agent, utterance)
	if resp.Final {
		r.Remove(id)
	}
	return resp, nil
}
