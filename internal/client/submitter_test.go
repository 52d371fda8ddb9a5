package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	states []Status
}

func (r *recorder) observe(st Status) {
	r.mu.Lock()
	r.states = append(r.states, st)
	r.mu.Unlock()
}

func (r *recorder) waits() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []time.Duration
	for _, st := range r.states {
		if st.State == Retrying {
			out = append(out, st.Wait)
		}
	}
	return out
}

func timeoutErr() error {
	return fmt.Errorf("%w: deadline", ErrTimeout)
}

func TestSubmitterRetriesTimeoutsLinearly(t *testing.T) {
	rec := &recorder{}
	s := NewSubmitter(WithBackoffStep(time.Millisecond), WithObserver(rec.observe))

	calls := 0
	err := s.Submit(context.Background(), func(ctx context.Context) error {
		calls++
		return timeoutErr()
	})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 4, calls, "one attempt plus three retries")
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond}, rec.waits())

	st := s.Status()
	assert.Equal(t, Failed, st.State)
	assert.Equal(t, 4, st.Attempt)
	assert.ErrorIs(t, st.Err, ErrTimeout)
}

func TestSubmitterSucceedsAfterRetry(t *testing.T) {
	rec := &recorder{}
	s := NewSubmitter(WithBackoffStep(time.Millisecond), WithObserver(rec.observe))

	calls := 0
	err := s.Submit(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return timeoutErr()
		}
		return nil
	})
	require.NoError(t, err)

	var states []State
	for _, st := range rec.states {
		states = append(states, st.State)
	}
	assert.Equal(t, []State{Submitting, Retrying, Submitting, Retrying, Submitting, Succeeded}, states)
	assert.Equal(t, Status{State: Succeeded, Attempt: 3}, s.Status())
}

func TestSubmitterDoesNotRetryOtherFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "validation", err: &APIError{Status: 400, Message: "Order items cannot be empty."}},
		{name: "server error", err: &APIError{Status: 500, Message: "Error placing order"}},
		{name: "refused", err: fmt.Errorf("%w: connection refused", ErrUnreachable)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSubmitter(WithBackoffStep(time.Millisecond))
			calls := 0
			err := s.Submit(context.Background(), func(ctx context.Context) error {
				calls++
				return tt.err
			})

			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, calls)
			assert.Equal(t, Failed, s.Status().State)
		})
	}
}

func TestNewSubmissionSupersedesInFlight(t *testing.T) {
	s := NewSubmitter(WithBackoffStep(time.Millisecond))
	started := make(chan struct{})

	first := make(chan error, 1)
	go func() {
		first <- s.Submit(context.Background(), func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		})
	}()
	<-started

	err := s.Submit(context.Background(), func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	select {
	case err := <-first:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(time.Second):
		t.Fatal("first submission was not cancelled")
	}
	assert.Equal(t, Succeeded, s.Status().State)
}

func TestSubmitterStopsOnCallerCancel(t *testing.T) {
	s := NewSubmitter(WithBackoffStep(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- s.Submit(ctx, func(ctx context.Context) error { return timeoutErr() })
	}()

	require.Eventually(t, func() bool { return s.Status().State == Retrying }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("submission did not stop")
	}
	assert.Equal(t, Failed, s.Status().State)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "retrying", Retrying.String())
	assert.Equal(t, "unknown", State(42).String())
}
