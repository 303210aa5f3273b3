// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartDueDateScheduler archives active bounties whose due date has passed.
func (s *BountyService) StartDueDateScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every hour: archive past-due bounties
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			archived, err := s.ArchivePastDue(time.Now())
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}
			if archived > 0 {
				log.Printf("✅ Auto-archived %d past-due bounties", archived)
			}
		}),
	)
}
