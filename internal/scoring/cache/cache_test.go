package cache

import (
	"context"
	"testing"
	"time"

	"leadscore_backend/internal/scoring/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, nil), mr
}

func TestPredictionRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	leadID := uuid.New()

	if _, ok := c.Prediction(ctx, leadID); ok {
		t.Fatal("expected miss before any write")
	}

	stored := domain.Prediction{
		LeadID:                leadID,
		ConversionProbability: 0.65,
		RevenueForecast:       domain.RevenueForecast{Estimated: 8000, Low: 6400, High: 9600},
		GeneratedAt:           time.Now().UTC().Truncate(time.Second),
	}
	c.SetPrediction(ctx, stored)

	got, ok := c.Prediction(ctx, leadID)
	if !ok {
		t.Fatal("expected hit after write")
	}
	if got.LeadID != leadID || got.ConversionProbability != 0.65 {
		t.Fatalf("cached prediction mismatch: %+v", got)
	}
	if got.RevenueForecast.Estimated != 8000 {
		t.Fatalf("revenue forecast not preserved: %+v", got.RevenueForecast)
	}

	if _, ok := c.Prediction(ctx, uuid.New()); ok {
		t.Fatal("prediction for a different lead must miss")
	}
}

func TestInvalidatePredictionDropsEntry(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	leadID := uuid.New()

	c.SetPrediction(ctx, domain.Prediction{LeadID: leadID, ConversionProbability: 0.4})
	c.InvalidatePrediction(ctx, leadID)

	if _, ok := c.Prediction(ctx, leadID); ok {
		t.Fatal("expected miss after invalidation")
	}
}

func TestPredictionExpiresAfterTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	leadID := uuid.New()

	c.SetPrediction(ctx, domain.Prediction{LeadID: leadID, ConversionProbability: 0.4})

	mr.FastForward(predictionTTL + time.Second)

	if _, ok := c.Prediction(ctx, leadID); ok {
		t.Fatal("expected miss after TTL expiry")
	}
}

func TestBenchmarkRoundTripAndExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if _, ok := c.Benchmark(ctx); ok {
		t.Fatal("expected miss before any write")
	}

	c.SetBenchmark(ctx, domain.Benchmark{Average: 61.5, Median: 60, P25: 45, P75: 78, SampleSize: 40})

	got, ok := c.Benchmark(ctx)
	if !ok {
		t.Fatal("expected hit after write")
	}
	if got.Average != 61.5 || got.SampleSize != 40 {
		t.Fatalf("cached benchmark mismatch: %+v", got)
	}

	mr.FastForward(benchmarkTTL + time.Second)
	if _, ok := c.Benchmark(ctx); ok {
		t.Fatal("expected miss after TTL expiry")
	}
}

func TestCorruptPayloadReadsAsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	leadID := uuid.New()

	if err := mr.Set(predictionKeyPrefix+leadID.String(), "{not json"); err != nil {
		t.Fatalf("seed corrupt payload: %v", err)
	}

	if _, ok := c.Prediction(ctx, leadID); ok {
		t.Fatal("corrupt payload must read as a miss")
	}
}

func TestNilClientDegradesToNoop(t *testing.T) {
	c := New(nil, nil)
	ctx := context.Background()
	leadID := uuid.New()

	c.SetPrediction(ctx, domain.Prediction{LeadID: leadID})
	c.SetBenchmark(ctx, domain.Benchmark{Average: 50})
	c.InvalidatePrediction(ctx, leadID)

	if _, ok := c.Prediction(ctx, leadID); ok {
		t.Fatal("nil client must always miss")
	}
	if _, ok := c.Benchmark(ctx); ok {
		t.Fatal("nil client must always miss")
	}
}
