package jobs_test

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sushilldhakal/tourmarket/internal/jobs"
	"github.com/sushilldhakal/tourmarket/internal/mocks"
	"go.uber.org/goleak"
	"testing"
	"time"
)

func TestNewScheduler(t *testing.T) {
	svc := new(mocks.MockBookingService)

	_, err := jobs.NewScheduler(svc, "", time.Second)
	assert.NoError(t, err)

	_, err = jobs.NewScheduler(svc, "*/15 * * * *", time.Second)
	assert.NoError(t, err)

	_, err = jobs.NewScheduler(svc, "every now and then", time.Second)
	assert.Error(t, err)
}

func TestCompletePastBookings(t *testing.T) {
	t.Run("Runs the completion with a deadline", func(t *testing.T) {
		svc := new(mocks.MockBookingService)
		svc.On("CompletePastBookings", mock.MatchedBy(func(ctx context.Context) bool {
			_, ok := ctx.Deadline()
			return ok
		})).Return(int64(3), nil).Once()

		s, err := jobs.NewScheduler(svc, "@hourly", time.Second)
		require.NoError(t, err)

		s.CompletePastBookings()

		svc.AssertExpectations(t)
	})

	t.Run("Errors are logged, not raised", func(t *testing.T) {
		svc := new(mocks.MockBookingService)
		svc.On("CompletePastBookings", mock.Anything).Return(int64(0), errors.New("db down")).Once()

		s, err := jobs.NewScheduler(svc, "@hourly", time.Second)
		require.NoError(t, err)

		assert.NotPanics(t, s.CompletePastBookings)
		svc.AssertExpectations(t)
	})
}

func TestSchedulerRunStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s, err := jobs.NewScheduler(new(mocks.MockBookingService), "@hourly", time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
