package auth

import (
	"context"
	"sync"
)

type SessionEvent string

const (
	SessionSignedIn  SessionEvent = "signed_in"
	SessionSignedOut SessionEvent = "signed_out"
)

// Session holds the signed-in identity for a long-lived client such as the
// CLI. It is created once at startup and passed to whatever needs to know who
// is acting; subscribers hear about sign-in and sign-out.
type Session struct {
	service *Service

	mu      sync.RWMutex
	token   *Token
	subs    map[int]func(SessionEvent, Profile)
	nextSub int
}

func NewSession(service *Service) *Session {
	return &Session{service: service, subs: map[int]func(SessionEvent, Profile){}}
}

func (s *Session) SignIn(ctx context.Context, email, password string) (Profile, error) {
	token, err := s.service.SignIn(ctx, email, password)
	if err != nil {
		return Profile{}, err
	}
	s.mu.Lock()
	s.token = &token
	s.mu.Unlock()
	s.notify(SessionSignedIn, token.Profile)
	return token.Profile, nil
}

func (s *Session) SignOut() {
	s.mu.Lock()
	prev := s.token
	s.token = nil
	s.mu.Unlock()
	if prev != nil {
		s.notify(SessionSignedOut, prev.Profile)
	}
}

// Subscribe registers fn and returns a func that removes it.
func (s *Session) Subscribe(fn func(SessionEvent, Profile)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) CurrentIdentity(ctx context.Context) (Identity, error) {
	if err := ctx.Err(); err != nil {
		return Identity{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return Identity{}, ErrNoSession
	}
	return Identity{UserID: s.token.Profile.UserID, Email: s.token.Profile.Email}, nil
}

func (s *Session) Profile() (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return Profile{}, false
	}
	return s.token.Profile, true
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return ""
	}
	return s.token.AccessToken
}

func (s *Session) notify(event SessionEvent, profile Profile) {
	s.mu.RLock()
	subs := make([]func(SessionEvent, Profile), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(event, profile)
	}
}
