package jobs

import (
	"context"
	"fmt"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/sushilldhakal/tourmarket/internal/log"
	"github.com/sushilldhakal/tourmarket/internal/ports"
	"time"
)

const DefaultCompletionSchedule = "@hourly"

// Scheduler runs periodic booking maintenance.
type Scheduler struct {
	cron     *cron.Cron
	bookings ports.BookingService
	timeout  time.Duration
}

func NewScheduler(bookings ports.BookingService, schedule string, timeout time.Duration) (*Scheduler, error) {
	if schedule == "" {
		schedule = DefaultCompletionSchedule
	}
	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.Recover(cronLogger{}))),
		bookings: bookings,
		timeout:  timeout,
	}
	if _, err := s.cron.AddFunc(schedule, s.CompletePastBookings); err != nil {
		return nil, fmt.Errorf("invalid completion schedule %q: %w", schedule, err)
	}
	return s, nil
}

// CompletePastBookings marks confirmed bookings whose departure has passed as completed.
func (s *Scheduler) CompletePastBookings() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	logger := log.FromContext(ctx).WithField("job", "complete_past_bookings")
	n, err := s.bookings.CompletePastBookings(ctx)
	if err != nil {
		logger.WithError(err).Error("Job failed")
		return
	}
	logger.WithField("completed", n).Info("Job finished")
}

// Run blocks until ctx is done, then waits for a running job to return.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	return nil
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logrus.WithFields(fields(keysAndValues)).Debug(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logrus.WithError(err).WithFields(fields(keysAndValues)).Error(msg)
}

func fields(keysAndValues []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}
