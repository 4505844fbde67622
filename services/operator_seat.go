// Package services: services/operator_seat.go
package services

import (
	"errors"
	"sync"

	"go-ref-assist/logger"
)

// ErrSeatTaken is returned when another login already holds the operator seat.
var ErrSeatTaken = errors.New("operator seat is already taken")

// ErrNotSeatHolder is returned when a token releases a seat it does not hold.
var ErrNotSeatHolder = errors.New("token does not hold the operator seat")

// OperatorSeatInterface tracks which login is driving the console. A match
// has exactly one operator; everyone else watches. The seat is keyed by a
// per-login token, so two logins with the same credentials are still two
// different holders.
type OperatorSeatInterface interface {
	Holder() string
	Claim(user, token string) error
	Release(token string) error
	Reset()
}

type OperatorSeat struct {
	mu    sync.Mutex
	token string
	user  string
}

// NewOperatorSeat creates an empty seat.
func NewOperatorSeat() *OperatorSeat {
	return &OperatorSeat{}
}

// Holder returns the token of the current operator, or "" when the seat is free.
func (s *OperatorSeat) Holder() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Claim assigns the seat to token. Claiming again with the held token succeeds.
func (s *OperatorSeat) Claim(user, token string) error {
	if token == "" {
		return errors.New("token must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.token != token {
		logger.Warn.Printf("[OperatorSeat.Claim] %s refused, seat held by %s", user, s.user)
		return ErrSeatTaken
	}
	s.token, s.user = token, user
	logger.Info.Printf("[OperatorSeat.Claim] operator seat assigned to %s", user)
	return nil
}

// Release frees the seat if token holds it.
func (s *OperatorSeat) Release(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" || s.token != token {
		return ErrNotSeatHolder
	}
	logger.Info.Printf("[OperatorSeat.Release] operator seat vacated by %s", s.user)
	s.token, s.user = "", ""
	return nil
}

// Reset clears the seat regardless of holder.
func (s *OperatorSeat) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	logger.Info.Printf("[OperatorSeat.Reset] clearing operator seat (was %q)", s.user)
	s.token, s.user = "", ""
}
