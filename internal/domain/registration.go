package domain

import "context"

// Registration binds exactly one participant to exactly one event.
type Registration struct {
	ID      string `json:"id,omitempty"`
	EventID string `json:"event_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	College string `json:"college"`
	Phone   string `json:"phone"`
}

// RegistrationAPI defines the remote registration endpoints.
type RegistrationAPI interface {
	Mine(ctx context.Context) ([]*Registration, error)
	Register(ctx context.Context, reg *Registration) (*Registration, error)
}
