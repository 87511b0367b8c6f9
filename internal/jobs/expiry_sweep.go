package jobs

import (
	"context"
	"log"
	"time"

	"cloudpanel/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

// ExpirySweeper periodically flips active subscriptions whose end date has
// passed to expired. Access control never reads the stored status alone,
// but keeping it convergent with the derived snapshot keeps admin listings
// and reports honest.
type ExpirySweeper struct {
	scheduler        gocron.Scheduler
	subscriptionRepo repositories.SubscriptionRepository
}

func NewExpirySweeper(subscriptionRepo repositories.SubscriptionRepository) (*ExpirySweeper, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	s := &ExpirySweeper{
		scheduler:        scheduler,
		subscriptionRepo: subscriptionRepo,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(s.sweep),
		gocron.WithName("subscription-expiry-sweep"),
	)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *ExpirySweeper) Start() {
	log.Printf("Starting subscription expiry sweeper")
	s.scheduler.Start()
}

func (s *ExpirySweeper) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *ExpirySweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := s.subscriptionRepo.MarkExpired(ctx)
	if err != nil {
		log.Printf("Expiry sweep failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Expiry sweep marked %d subscriptions expired", count)
	}
}
