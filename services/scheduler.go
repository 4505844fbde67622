// Package services: services/scheduler.go
package services

import "time"

// Timer is a cancellation handle for a scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the
	// callback already fired or was stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay and tells the time.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

// realScheduler is backed by the runtime timers.
type realScheduler struct{}

// DefaultScheduler uses time.AfterFunc and time.Now.
var DefaultScheduler Scheduler = realScheduler{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (realScheduler) Now() time.Time {
	return time.Now()
}
