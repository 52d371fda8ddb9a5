package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var ErrSuperseded = errors.New("submission superseded")

type State int

const (
	Idle State = iota
	Submitting
	Retrying
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Retrying:
		return "retrying"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is a snapshot of a Submitter. Attempt counts the attempts started so
// far; Wait is the pause before the next one while Retrying.
type Status struct {
	State   State
	Attempt int
	Wait    time.Duration
	Err     error
}

// linearBackOff waits step, 2*step, 3*step, ...
type linearBackOff struct {
	step time.Duration
	n    int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return time.Duration(b.n) * b.step
}

func (b *linearBackOff) Reset() {
	b.n = 0
}

// Submitter runs one form submission at a time, retrying only timed out
// attempts. Starting a new submission cancels the one in flight.
type Submitter struct {
	maxRetries uint64
	step       time.Duration
	observe    func(Status)

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelCauseFunc
	status Status
}

type SubmitterOption func(*Submitter)

func WithMaxRetries(n uint64) SubmitterOption {
	return func(s *Submitter) { s.maxRetries = n }
}

// WithBackoffStep sets the first retry delay; later delays grow linearly.
func WithBackoffStep(d time.Duration) SubmitterOption {
	return func(s *Submitter) { s.step = d }
}

// WithObserver is called after every state change.
func WithObserver(fn func(Status)) SubmitterOption {
	return func(s *Submitter) { s.observe = fn }
}

func NewSubmitter(opts ...SubmitterOption) *Submitter {
	s := &Submitter{
		maxRetries: 3,
		step:       time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Submitter) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Submit runs op until it succeeds, fails with anything but ErrTimeout, or
// runs out of retries. A submission replaced by a newer one returns
// ErrSuperseded and no longer updates the status.
func (s *Submitter) Submit(ctx context.Context, op func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel(ErrSuperseded)
	}
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.mu.Unlock()

	attempt := 0
	policy := backoff.WithContext(backoff.WithMaxRetries(&linearBackOff{step: s.step}, s.maxRetries), ctx)

	err := backoff.RetryNotify(func() error {
		attempt++
		s.set(gen, Status{State: Submitting, Attempt: attempt})

		err := op(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrTimeout) && ctx.Err() == nil {
			return err
		}
		return backoff.Permanent(err)
	}, policy, func(err error, wait time.Duration) {
		s.set(gen, Status{State: Retrying, Attempt: attempt, Wait: wait, Err: err})
	})

	if errors.Is(context.Cause(ctx), ErrSuperseded) {
		return ErrSuperseded
	}

	s.mu.Lock()
	if s.gen == gen {
		s.cancel = nil
	}
	s.mu.Unlock()

	if err != nil {
		s.set(gen, Status{State: Failed, Attempt: attempt, Err: err})
		return err
	}
	s.set(gen, Status{State: Succeeded, Attempt: attempt})
	return nil
}

func (s *Submitter) set(gen uint64, st Status) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.status = st
	observe := s.observe
	s.mu.Unlock()

	if observe != nil {
		observe(st)
	}
}
