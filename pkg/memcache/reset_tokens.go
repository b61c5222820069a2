package mem

import "time"

type ResetTokenStore interface {
	Set(token string, accountEmail string)

	// Consume returns the email for token and removes it. Expired or unknown
	// tokens report false.
	Consume(token string) (string, bool)

	Peek(token string) (string, bool)

	TTL() time.Duration
}

type ResetTokens struct {
	store *Store[string]
	ttl   time.Duration
}

func NewResetTokens(capacity int, ttl time.Duration) *ResetTokens {
	return &ResetTokens{store: NewStore[string](capacity, ttl), ttl: ttl}
}

func (s *ResetTokens) Set(token string, accountEmail string) {
	s.store.Put(token, accountEmail)
}

func (s *ResetTokens) Consume(token string) (string, bool) {
	return s.store.Take(token)
}

func (s *ResetTokens) Peek(token string) (string, bool) {
	return s.store.Get(token)
}

func (s *ResetTokens) TTL() time.Duration { return s.ttl }
