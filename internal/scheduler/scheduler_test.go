package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/akashjainn/propsage-sub000/internal/models"
	"github.com/akashjainn/propsage-sub000/internal/service"
)

type MockBatchRunner struct {
	mock.Mock
}

func (m *MockBatchRunner) PriceAll(ctx context.Context, reqs []*models.MarketRequest, trigger string) *service.BatchReport {
	args := m.Called(ctx, reqs, trigger)
	return args.Get(0).(*service.BatchReport)
}

type staticQuotes struct {
	markets []*models.MarketRequest
	err     error
}

func (s staticQuotes) FetchMarkets(ctx context.Context) ([]*models.MarketRequest, error) {
	return s.markets, s.err
}

func (s staticQuotes) Name() string {
	return "static"
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRunOnce(t *testing.T) {
	markets := []*models.MarketRequest{{ID: "m1", PlayerID: "p1"}}
	runner := new(MockBatchRunner)
	want := &service.BatchReport{BatchID: "b1", Succeeded: 1}
	runner.On("PriceAll", mock.Anything, markets, TriggerManual).Return(want)

	s := NewScheduler(runner, Sources{Quotes: staticQuotes{markets: markets}}, testLogger())
	var seen *service.BatchReport
	s.OnReport(func(r *service.BatchReport) { seen = r })

	report, err := s.RunOnce(context.Background(), TriggerManual)
	require.NoError(t, err)
	assert.Same(t, want, report)
	assert.Same(t, want, seen)
	runner.AssertExpectations(t)
}

func TestRunOnceFetchError(t *testing.T) {
	runner := new(MockBatchRunner)
	s := NewScheduler(runner, Sources{Quotes: staticQuotes{err: errors.New("feed down")}}, testLogger())

	_, err := s.RunOnce(context.Background(), TriggerManual)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed down")
	runner.AssertNotCalled(t, "PriceAll", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheck(t *testing.T) {
	quotes := &staticQuotes{err: errors.New("feed down")}
	s := NewScheduler(new(MockBatchRunner), Sources{Quotes: quotes}, testLogger())
	require.NoError(t, s.ScheduleRepricing("@every 1h"))

	assert.EqualError(t, s.Check(context.Background()), "scheduler is not running")

	require.NoError(t, s.Start())
	defer func() { _ = s.Stop("test") }()
	assert.NoError(t, s.Check(context.Background()))

	_, _ = s.RunOnce(context.Background(), TriggerManual)
	err := s.Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed down")
}

func TestScheduleRepricing(t *testing.T) {
	s := NewScheduler(new(MockBatchRunner), Sources{Quotes: staticQuotes{}}, testLogger())

	assert.Error(t, s.Start(), "no jobs scheduled")
	assert.Error(t, s.ScheduleRepricing("not a cron"))

	require.NoError(t, s.ScheduleRepricing("@every 1h"))
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.Error(t, s.ScheduleRepricing("@every 2h"))

	next := s.GetNextRun()
	assert.WithinDuration(t, time.Now().Add(time.Hour), next, time.Minute)

	require.NoError(t, s.Stop("test"))
	assert.False(t, s.IsRunning())
	assert.True(t, s.GetNextRun().IsZero())
	assert.NoError(t, s.Stop("again"))
}

func TestScheduledRunFires(t *testing.T) {
	markets := []*models.MarketRequest{{ID: "m1", PlayerID: "p1"}}
	runner := new(MockBatchRunner)
	runner.On("PriceAll", mock.Anything, markets, TriggerCron).Return(&service.BatchReport{BatchID: "b1"})

	s := NewScheduler(runner, Sources{Quotes: staticQuotes{markets: markets}}, testLogger())
	reports := make(chan *service.BatchReport, 4)
	s.OnReport(func(r *service.BatchReport) { reports <- r })

	require.NoError(t, s.ScheduleRepricing("@every 1s"))
	require.NoError(t, s.Start())
	defer func() { _ = s.Stop("test") }()

	select {
	case r := <-reports:
		assert.Equal(t, "b1", r.BatchID)
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled run did not fire")
	}
}
