package notifier

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shakeeb2001/Weather-App/internal/metrics"
	"github.com/shakeeb2001/Weather-App/internal/models"
	"github.com/shakeeb2001/Weather-App/internal/pipeline"
)

const scheduledTrigger = "scheduled"

type userLister interface {
	List(ctx context.Context) ([]models.User, error)
}

type pipelineRunner interface {
	Run(ctx context.Context, user models.User) pipeline.Outcome
}

// Notifier owns the recurring schedule: every tick it dispatches one
// pipeline run per known user. Runs within a tick are independent; a failed
// run is logged and counted, never propagated.
type Notifier struct {
	users         userLister
	pipeline      pipelineRunner
	logger        *log.Logger
	cron          *cron.Cron
	cancel        context.CancelFunc
	m             *metrics.Metrics
	spec          string
	maxConcurrent int
}

func New(
	users userLister,
	pipe pipelineRunner,
	logger *log.Logger,
	m *metrics.Metrics,
	spec string,
	maxConcurrent int,
) *Notifier {
	return &Notifier{
		users:         users,
		pipeline:      pipe,
		logger:        logger,
		cron:          cron.New(),
		m:             m,
		spec:          spec,
		maxConcurrent: maxConcurrent,
	}
}

func (n *Notifier) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	n.cancel = cancel

	if _, err := n.cron.AddFunc(n.spec, func() { n.Tick(ctx) }); err != nil {
		cancel()
		return err
	}

	n.cron.Start()
	n.logger.Println("Weather notifier started with schedule", n.spec)
	return nil
}

func (n *Notifier) Stop() {
	if n.cancel != nil {
		n.cancel()
	}
	stopCtx := n.cron.Stop()
	<-stopCtx.Done()
	n.logger.Println("All cron jobs finished, notifier stopped")
}

// Tick dispatches a pipeline run for every currently known user. With
// maxConcurrent 0 every run starts immediately, otherwise a semaphore bounds
// the in-flight count.
func (n *Notifier) Tick(ctx context.Context) {
	start := time.Now()
	n.m.TickRuns.Inc()
	n.logger.Println("Fetching and sending weather data...")

	users, err := n.users.List(ctx)
	if err != nil {
		n.logger.Println("DB query error:", err)
		return
	}

	var sem chan struct{}
	if n.maxConcurrent > 0 {
		sem = make(chan struct{}, n.maxConcurrent)
	}

	var wg sync.WaitGroup
	wg.Add(len(users))

	for _, user := range users {
		u := user
		go func() {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}

			outcome := n.pipeline.Run(ctx, u)
			n.m.RecordPipelineRun(scheduledTrigger, string(outcome.Stage))
			if !outcome.Sent() {
				n.logger.Printf("Scheduled run for %s stopped at %s stage", u.Email, outcome.Stage)
			}
		}()
	}

	wg.Wait()

	dur := time.Since(start)
	n.m.TickDuration.Observe(dur.Seconds())
	n.logger.Printf("Scheduler tick completed for %d users in %s", len(users), dur)
}
