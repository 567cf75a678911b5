// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartExpiryScheduler sweeps overdue challenges every interval. The caller
// shuts the returned scheduler down on exit.
func (s *ChallengeService) StartExpiryScheduler(interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()

			n, err := s.ExpireDue(ctx)
			if err != nil {
				log.Printf("[Scheduler] expiry sweep failed: %v", err)
				return
			}
			if n > 0 {
				log.Printf("⌛ Expired %d overdue challenge(s)", n)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	return sched, nil
}
