package pipeline

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shakeeb2001/Weather-App/internal/models"
)

const dateLayout = "2006-01-02"

// Stage names the steps of one fetch-store-notify run, in order.
type Stage string

const (
	StageFetch  Stage = "fetch"
	StageStore  Stage = "store"
	StageRender Stage = "render"
	StageSend   Stage = "send"
	StageDone   Stage = "done"
)

// Outcome records how far a run progressed. Stage is StageDone on a full
// run, otherwise the stage that failed, with its error. A failed run leaves
// no trace beyond its logs and everything the earlier stages already did:
// an append that preceded a send failure stays in the history.
type Outcome struct {
	Stage Stage
	Err   error
}

func (o Outcome) Sent() bool {
	return o.Stage == StageDone && o.Err == nil
}

type weatherFetcher interface {
	Fetch(ctx context.Context, location string) (models.Snapshot, error)
}

type historyAppender interface {
	AppendRecord(ctx context.Context, email, date string, payload json.RawMessage) error
}

type reportRenderer interface {
	Render(email, location string, snap models.Snapshot, generatedAt time.Time) ([]byte, error)
}

type reportSender interface {
	SendWeatherReport(to, location string, pdf []byte) error
}

// Pipeline executes the strict per-user sequence: fetch weather, append a
// dated record, render the PDF, email it. The first failure ends the run;
// nothing is retried.
type Pipeline struct {
	weather  weatherFetcher
	history  historyAppender
	renderer reportRenderer
	sender   reportSender
	clock    clockwork.Clock
	logger   *log.Logger
}

func New(
	weather weatherFetcher,
	history historyAppender,
	renderer reportRenderer,
	sender reportSender,
	clock clockwork.Clock,
	logger *log.Logger,
) *Pipeline {
	return &Pipeline{
		weather:  weather,
		history:  history,
		renderer: renderer,
		sender:   sender,
		clock:    clock,
		logger:   logger,
	}
}

// Run executes one pipeline run for a single user. The calendar day is the
// current UTC date; repeated runs within one day append duplicate-date
// records on purpose.
func (p *Pipeline) Run(ctx context.Context, user models.User) Outcome {
	snap, err := p.weather.Fetch(ctx, user.Location)
	if err != nil {
		p.logger.Printf("Weather fetch error for %s (%s): %v", user.Email, user.Location, err)
		return Outcome{Stage: StageFetch, Err: err}
	}

	now := p.clock.Now()
	date := now.UTC().Format(dateLayout)

	if err := p.history.AppendRecord(ctx, user.Email, date, snap.Raw); err != nil {
		p.logger.Printf("History append error for %s: %v", user.Email, err)
		return Outcome{Stage: StageStore, Err: err}
	}

	pdf, err := p.renderer.Render(user.Email, user.Location, snap, now)
	if err != nil {
		p.logger.Printf("Report render error for %s: %v", user.Email, err)
		return Outcome{Stage: StageRender, Err: err}
	}

	if err := p.sender.SendWeatherReport(user.Email, user.Location, pdf); err != nil {
		p.logger.Printf("Email send error for %s: %v", user.Email, err)
		return Outcome{Stage: StageSend, Err: err}
	}

	p.logger.Printf("Weather report sent to %s", user.Email)
	return Outcome{Stage: StageDone}
}
