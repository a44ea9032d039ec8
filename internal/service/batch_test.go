package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/akashjainn/propsage-sub000/internal/models"
)

type MockMarketPricer struct {
	mock.Mock
}

func (m *MockMarketPricer) PriceMarket(ctx context.Context, req *models.MarketRequest) (*MarketPricing, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MarketPricing), args.Error(1)
}

func batchRequests(n int) []*models.MarketRequest {
	reqs := make([]*models.MarketRequest, n)
	for i := range reqs {
		req := pointsRequest()
		req.ID = fmt.Sprintf("m%d", i)
		req.PlayerID = fmt.Sprintf("p%d", i)
		reqs[i] = req
	}
	return reqs
}

func matchID(id string) interface{} {
	return mock.MatchedBy(func(req *models.MarketRequest) bool { return req.ID == id })
}

func TestPriceAllMixedResults(t *testing.T) {
	pricer := new(MockMarketPricer)
	reqs := batchRequests(4)

	pricer.On("PriceMarket", mock.Anything, matchID("m0")).Return(&MarketPricing{MarketID: "m0", Actionable: true}, nil)
	pricer.On("PriceMarket", mock.Anything, matchID("m1")).Return(nil, errors.New("no curve"))
	pricer.On("PriceMarket", mock.Anything, matchID("m2")).Return(&MarketPricing{MarketID: "m2", DevigFallbacks: 1}, nil)
	pricer.On("PriceMarket", mock.Anything, matchID("m3")).Return(&MarketPricing{MarketID: "m3"}, nil)

	report := NewBatchPricer(pricer, 2, testLogger()).PriceAll(context.Background(), reqs, "manual")

	assert.NotEmpty(t, report.BatchID)
	assert.Equal(t, "manual", report.Trigger)
	assert.Equal(t, 3, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Results, 4)
	for i, r := range report.Results {
		assert.Equal(t, fmt.Sprintf("m%d", i), r.MarketID)
	}

	failed := report.Results[1]
	assert.Equal(t, BatchStatusFailure, failed.Status)
	assert.Equal(t, "no curve", failed.Error)
	assert.EqualError(t, failed.Err(), "no curve")
	assert.Nil(t, failed.Pricing)

	assert.Equal(t, BatchStatusSuccess, report.Results[0].Status)
	assert.True(t, report.Results[0].Pricing.Actionable)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))
	pricer.AssertExpectations(t)
}

func TestPriceAllRecoversPanic(t *testing.T) {
	pricer := new(MockMarketPricer)
	reqs := batchRequests(2)

	pricer.On("PriceMarket", mock.Anything, matchID("m0")).Run(func(mock.Arguments) {
		panic("boom")
	}).Return(nil, nil)
	pricer.On("PriceMarket", mock.Anything, matchID("m1")).Return(&MarketPricing{MarketID: "m1"}, nil)

	report := NewBatchPricer(pricer, 1, testLogger()).PriceAll(context.Background(), reqs, "manual")

	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, BatchStatusFailure, report.Results[0].Status)
	assert.True(t, strings.Contains(report.Results[0].Error, "boom"))
	assert.Equal(t, BatchStatusSuccess, report.Results[1].Status)
}

func TestPriceAllCancelled(t *testing.T) {
	pricer := new(MockMarketPricer)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := NewBatchPricer(pricer, 4, testLogger()).PriceAll(ctx, batchRequests(3), "cron")

	assert.Equal(t, 0, report.Succeeded)
	assert.Equal(t, 3, report.Failed)
	for _, r := range report.Results {
		assert.ErrorIs(t, r.Err(), context.Canceled)
	}
	pricer.AssertNotCalled(t, "PriceMarket", mock.Anything, mock.Anything)
}

func TestPriceAllNilRequest(t *testing.T) {
	report := NewBatchPricer(new(MockMarketPricer), 0, testLogger()).
		PriceAll(context.Background(), []*models.MarketRequest{nil}, "manual")

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, "nil market request", report.Results[0].Error)
}

func TestPriceAllWithService(t *testing.T) {
	svc := NewPricingService(DefaultOptions(), testLogger())
	report := NewBatchPricer(svc, 2, testLogger()).PriceAll(context.Background(), batchRequests(3), "manual")

	assert.Equal(t, 3, report.Succeeded)
	for _, r := range report.Results {
		require.NotNil(t, r.Pricing)
		assert.InDelta(t, 24.38, r.Pricing.FairLine.Line, 0.1)
	}
}

func TestBatchStats(t *testing.T) {
	stats := NewBatchStats(4)
	stats.RecordSuccess(&MarketPricing{Actionable: true, DevigFallbacks: 2})
	stats.RecordSuccess(&MarketPricing{})
	stats.RecordFailure()
	stats.Finish()

	assert.Equal(t, 50.0, stats.SuccessRate())
	assert.Equal(t, 1, stats.Actionable)
	assert.Equal(t, 2, stats.DevigFallbacks)
	assert.Contains(t, stats.String(), "Succeeded=2 (50.0%)")
	assert.Contains(t, stats.String(), "Failed=1")

	assert.Zero(t, NewBatchStats(0).SuccessRate())
}
