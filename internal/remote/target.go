package remote

import (
	"context"

	"github.com/mcoot/gamehub/internal/endpoint"
)

// Target binds a dispatcher to the endpoints of one purpose and
// remembers in its ClientState which endpoint last answered
type Target struct {
	dispatcher *Dispatcher
	endpoints  endpoint.Config
	purpose    endpoint.Purpose
	state      *ClientState
}

// NewTarget creates a target with a fresh ClientState
func NewTarget(d *Dispatcher, endpoints endpoint.Config, purpose endpoint.Purpose) *Target {
	return &Target{
		dispatcher: d,
		endpoints:  endpoints,
		purpose:    purpose,
		state:      NewClientState(),
	}
}

// Purpose returns the purpose this target serves
func (t *Target) Purpose() endpoint.Purpose {
	return t.purpose
}

// State returns the target's endpoint-selection memory
func (t *Target) State() *ClientState {
	return t.state
}

// Endpoints returns the configured endpoints, preferred one first
func (t *Target) Endpoints() []endpoint.Descriptor {
	return t.state.Order(t.purpose, t.endpoints.List(t.purpose))
}

// Dispatch sends req across Endpoints and remembers the endpoint that answered
func (t *Target) Dispatch(ctx context.Context, req Request, decode DecodeFunc) (*Response, error) {
	resp, err := t.dispatcher.Dispatch(ctx, req, t.Endpoints(), decode)
	if err != nil {
		return nil, err
	}
	t.state.Remember(resp.Endpoint)
	return resp, nil
}

// Call is Do against a Target
func Call[T any](ctx context.Context, t *Target, req Request) (*T, error) {
	result, resp, err := Do[T](ctx, t.dispatcher, req, t.Endpoints())
	if err != nil {
		return nil, err
	}
	t.state.Remember(resp.Endpoint)
	return result, nil
}
