package notifier_test

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shakeeb2001/Weather-App/internal/metrics"
	"github.com/shakeeb2001/Weather-App/internal/models"
	"github.com/shakeeb2001/Weather-App/internal/notifier"
	"github.com/shakeeb2001/Weather-App/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLister struct {
	users []models.User
	err   error
}

func (m *mockLister) List(context.Context) ([]models.User, error) {
	return m.users, m.err
}

type mockRunner struct {
	mu       sync.Mutex
	ran      []string
	failFor  string
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	delay    time.Duration
}

func (m *mockRunner) Run(_ context.Context, u models.User) pipeline.Outcome {
	cur := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		seen := m.maxSeen.Load()
		if cur <= seen || m.maxSeen.CompareAndSwap(seen, cur) {
			break
		}
	}

	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	m.mu.Lock()
	m.ran = append(m.ran, u.Email)
	m.mu.Unlock()

	if u.Email == m.failFor {
		return pipeline.Outcome{Stage: pipeline.StageFetch, Err: errors.New("api down")}
	}
	return pipeline.Outcome{Stage: pipeline.StageDone}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestTickRunsEveryUser(t *testing.T) {
	users := []models.User{
		{Email: "a@example.com", Location: "Colombo"},
		{Email: "b@example.com", Location: "Kandy"},
		{Email: "c@example.com", Location: "Galle"},
	}
	runner := &mockRunner{failFor: "b@example.com"}

	n := notifier.New(&mockLister{users: users}, runner, discardLogger(),
		metrics.NewMetrics("tick_test", nil, ""), "0 */3 * * *", 0)

	n.Tick(context.Background())

	// one user's failure must not stop the others
	assert.ElementsMatch(t, []string{"a@example.com", "b@example.com", "c@example.com"}, runner.ran)
}

func TestTickListError(t *testing.T) {
	runner := &mockRunner{}

	n := notifier.New(&mockLister{err: errors.New("db gone")}, runner, discardLogger(),
		metrics.NewMetrics("tick_err_test", nil, ""), "0 */3 * * *", 0)

	n.Tick(context.Background())

	assert.Empty(t, runner.ran)
}

func TestTickConcurrencyCap(t *testing.T) {
	var users []models.User
	for _, email := range []string{"a@x", "b@x", "c@x", "d@x", "e@x"} {
		users = append(users, models.User{Email: email, Location: "Colombo"})
	}
	runner := &mockRunner{delay: 10 * time.Millisecond}

	n := notifier.New(&mockLister{users: users}, runner, discardLogger(),
		metrics.NewMetrics("cap_test", nil, ""), "0 */3 * * *", 2)

	n.Tick(context.Background())

	assert.Len(t, runner.ran, len(users))
	assert.LessOrEqual(t, runner.maxSeen.Load(), int32(2), "cap bounds in-flight runs")
}

func TestStartRejectsBadSpec(t *testing.T) {
	n := notifier.New(&mockLister{}, &mockRunner{}, discardLogger(),
		metrics.NewMetrics("spec_test", nil, ""), "not a cron spec", 0)

	err := n.Start(context.Background())
	require.Error(t, err)
}
