package remote

import (
	"sync"

	"github.com/mcoot/gamehub/internal/endpoint"
)

// ClientState remembers, per purpose, the endpoint that last answered
// successfully so later calls try it first. Each client service owns one.
type ClientState struct {
	mu        sync.RWMutex
	preferred map[endpoint.Purpose]endpoint.Descriptor
}

// NewClientState creates an empty state that keeps the configured order
func NewClientState() *ClientState {
	return &ClientState{
		preferred: make(map[endpoint.Purpose]endpoint.Descriptor),
	}
}

// Order returns eps with the remembered endpoint for purpose moved to the
// front. The rest keep their configured order. eps is not modified.
func (s *ClientState) Order(purpose endpoint.Purpose, eps []endpoint.Descriptor) []endpoint.Descriptor {
	s.mu.RLock()
	pref, ok := s.preferred[purpose]
	s.mu.RUnlock()

	ordered := make([]endpoint.Descriptor, 0, len(eps))
	if !ok {
		return append(ordered, eps...)
	}

	found := false
	for _, ep := range eps {
		if !found && ep == pref {
			found = true
			continue
		}
		ordered = append(ordered, ep)
	}
	if !found {
		return ordered
	}
	return append([]endpoint.Descriptor{pref}, ordered...)
}

// Remember records ep as the preferred endpoint for its purpose
func (s *ClientState) Remember(ep endpoint.Descriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferred[ep.Purpose] = ep
}

// Preferred returns the remembered endpoint for purpose, if any
func (s *ClientState) Preferred(purpose endpoint.Purpose) (endpoint.Descriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ep, ok := s.preferred[purpose]
	return ep, ok
}

// Reset forgets every remembered endpoint
func (s *ClientState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferred = make(map[endpoint.Purpose]endpoint.Descriptor)
}
