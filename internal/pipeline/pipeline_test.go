package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shakeeb2001/Weather-App/internal/models"
	"github.com/shakeeb2001/Weather-App/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockFetcher struct {
	snap       models.Snapshot
	err        error
	calledWith []string
}

func (m *mockFetcher) Fetch(_ context.Context, location string) (models.Snapshot, error) {
	m.calledWith = append(m.calledWith, location)
	return m.snap, m.err
}

type appendCall struct {
	email   string
	date    string
	payload string
}

type mockAppender struct {
	err      error
	appended []appendCall
}

func (m *mockAppender) AppendRecord(_ context.Context, email, date string, payload json.RawMessage) error {
	if m.err != nil {
		return m.err
	}
	m.appended = append(m.appended, appendCall{email: email, date: date, payload: string(payload)})
	return nil
}

type mockRenderer struct {
	pdf   []byte
	err   error
	calls int
}

func (m *mockRenderer) Render(string, string, models.Snapshot, time.Time) ([]byte, error) {
	m.calls++
	return m.pdf, m.err
}

type mockSender struct {
	err    error
	sentTo []string
	pdfs   [][]byte
}

func (m *mockSender) SendWeatherReport(to, _ string, pdf []byte) error {
	if m.err != nil {
		return m.err
	}
	m.sentTo = append(m.sentTo, to)
	m.pdfs = append(m.pdfs, pdf)
	return nil
}

var testUser = models.User{ID: 1, Email: "user@example.com", Location: "Colombo"}

func newPipeline(f *mockFetcher, a *mockAppender, r *mockRenderer, s *mockSender) *pipeline.Pipeline {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 18, 22, 30, 0, 0, time.UTC))
	return pipeline.New(f, a, r, s, clock, log.New(io.Discard, "", 0))
}

func TestRunSuccess(t *testing.T) {
	raw := json.RawMessage(`{"main":{"temp":300.15}}`)
	f := &mockFetcher{snap: models.Snapshot{Location: "Colombo", TempKelvin: 300.15, Raw: raw}}
	a := &mockAppender{}
	r := &mockRenderer{pdf: []byte("%PDF-fake")}
	s := &mockSender{}

	outcome := newPipeline(f, a, r, s).Run(context.Background(), testUser)

	require.True(t, outcome.Sent())
	assert.Equal(t, pipeline.StageDone, outcome.Stage)
	assert.NoError(t, outcome.Err)

	assert.Equal(t, []string{"Colombo"}, f.calledWith)
	require.Len(t, a.appended, 1)
	assert.Equal(t, "user@example.com", a.appended[0].email)
	assert.Equal(t, "2025-06-18", a.appended[0].date, "date is the UTC calendar day")
	assert.JSONEq(t, string(raw), a.appended[0].payload, "raw provider payload stored verbatim")

	assert.Equal(t, []string{"user@example.com"}, s.sentTo)
	assert.Equal(t, [][]byte{[]byte("%PDF-fake")}, s.pdfs)
}

func TestRunFetchFailure(t *testing.T) {
	f := &mockFetcher{err: errors.New("api down")}
	a := &mockAppender{}
	r := &mockRenderer{}
	s := &mockSender{}

	outcome := newPipeline(f, a, r, s).Run(context.Background(), testUser)

	assert.False(t, outcome.Sent())
	assert.Equal(t, pipeline.StageFetch, outcome.Stage)
	assert.Error(t, outcome.Err)

	assert.Empty(t, a.appended, "no history record on fetch failure")
	assert.Zero(t, r.calls)
	assert.Empty(t, s.sentTo, "no email on fetch failure")
}

func TestRunStoreFailure(t *testing.T) {
	f := &mockFetcher{snap: models.Snapshot{Raw: json.RawMessage(`{}`)}}
	a := &mockAppender{err: errors.New("db locked")}
	r := &mockRenderer{}
	s := &mockSender{}

	outcome := newPipeline(f, a, r, s).Run(context.Background(), testUser)

	assert.Equal(t, pipeline.StageStore, outcome.Stage)
	assert.Zero(t, r.calls, "render skipped when the append fails")
	assert.Empty(t, s.sentTo, "email not sent when the append fails")
}

func TestRunRenderFailure(t *testing.T) {
	f := &mockFetcher{snap: models.Snapshot{Raw: json.RawMessage(`{}`)}}
	a := &mockAppender{}
	r := &mockRenderer{err: errors.New("encoder error")}
	s := &mockSender{}

	outcome := newPipeline(f, a, r, s).Run(context.Background(), testUser)

	assert.Equal(t, pipeline.StageRender, outcome.Stage)
	assert.Len(t, a.appended, 1, "append precedes render, record kept")
	assert.Empty(t, s.sentTo)
}

func TestRunSendFailure(t *testing.T) {
	f := &mockFetcher{snap: models.Snapshot{Raw: json.RawMessage(`{}`)}}
	a := &mockAppender{}
	r := &mockRenderer{pdf: []byte("%PDF-fake")}
	s := &mockSender{err: errors.New("smtp not available")}

	outcome := newPipeline(f, a, r, s).Run(context.Background(), testUser)

	assert.Equal(t, pipeline.StageSend, outcome.Stage)
	assert.Len(t, a.appended, 1, "history grew even though no email was delivered")
}

func TestRunDuplicateSameDayRecords(t *testing.T) {
	f := &mockFetcher{snap: models.Snapshot{Raw: json.RawMessage(`{}`)}}
	a := &mockAppender{}
	r := &mockRenderer{pdf: []byte("%PDF-fake")}
	s := &mockSender{}

	p := newPipeline(f, a, r, s)
	for range 3 {
		require.True(t, p.Run(context.Background(), testUser).Sent())
	}

	require.Len(t, a.appended, 3, "repeated triggers within one day are not deduplicated")
	for _, call := range a.appended {
		assert.Equal(t, "2025-06-18", call.date)
	}
}
