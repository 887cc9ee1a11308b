package models

import "github.com/google/uuid"

// Session is the server side state behind a session cookie.
type Session struct {
	ID      uuid.UUID `json:"id"`
	Cart    Cart      `json:"cart"`
	Flashes []string  `json:"flashes,omitempty"`
}

func NewSession(id uuid.UUID) *Session {
	return &Session{ID: id, Cart: *NewCart()}
}

func (s *Session) AddFlash(message string) {
	s.Flashes = append(s.Flashes, message)
}

// PopFlashes returns the pending messages and forgets them.
func (s *Session) PopFlashes() []string {
	flashes := s.Flashes
	s.Flashes = nil

	return flashes
}
