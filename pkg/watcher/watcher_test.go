package watcher

import (
	"context"
	"testing"
	"time"

	"fundwatch/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFundSource struct {
	mock.Mock
}

func (m *MockFundSource) FetchSnapshot(ctx context.Context) models.FundSnapshot {
	args := m.Called(ctx)
	return args.Get(0).(models.FundSnapshot)
}

// funcSource lets a test control exactly when a fetch completes.
type funcSource func(ctx context.Context) models.FundSnapshot

func (f funcSource) FetchSnapshot(ctx context.Context) models.FundSnapshot {
	return f(ctx)
}

func TestNewWatcherDefaultInterval(t *testing.T) {
	w := NewWatcher(nil, 0)
	assert.NotNil(t, w)
	assert.Equal(t, time.Second, w.interval)
}

func TestSubscribeUnsubscribe(t *testing.T) {
	w := NewWatcher(nil, time.Second)
	sub := w.Subscribe()
	assert.NotNil(t, sub)

	w.mu.RLock()
	assert.Equal(t, 1, len(w.subscribers))
	w.mu.RUnlock()

	w.Unsubscribe(sub)
	w.mu.RLock()
	assert.Equal(t, 0, len(w.subscribers))
	w.mu.RUnlock()

	// Unsubscribe closes the channel.
	_, open := <-sub
	assert.False(t, open)
}

func TestTickAppliesSnapshot(t *testing.T) {
	mockSource := new(MockFundSource)
	snap := models.FundSnapshot{TotalValue: "1000000.00", TokenSupply: "500.00"}
	mockSource.On("FetchSnapshot", mock.Anything).Return(snap)

	w := NewWatcher(mockSource, time.Hour)
	sub := w.Subscribe()

	w.tick(context.Background())

	timeout := time.After(1 * time.Second)
	var got []Event
	for len(got) < 2 {
		select {
		case ev := <-sub:
			got = append(got, ev)
		case <-timeout:
			t.Fatalf("timed out waiting for events, got %d", len(got))
		}
	}

	assert.Equal(t, EventSyncStarted, got[0].Type)
	assert.Equal(t, EventSnapshotUpdated, got[1].Type)
	assert.Equal(t, snap, got[1].Data)
	assert.Equal(t, "1000000.00", w.Snapshot().TotalValue)
	mockSource.AssertExpectations(t)
}

func TestSlowTickDoesNotBlockLaterOnes(t *testing.T) {
	release := make(chan struct{})
	slow := funcSource(func(ctx context.Context) models.FundSnapshot {
		<-release
		return models.FundSnapshot{TotalValue: "1.00"}
	})

	w := NewWatcher(slow, time.Hour)
	w.tick(context.Background())

	// A fast tick fired after the slow one completes first.
	fast := funcSource(func(ctx context.Context) models.FundSnapshot {
		return models.FundSnapshot{TotalValue: "2.00"}
	})
	w.SetSource(fast)
	w.tick(context.Background())

	assert.Eventually(t, func() bool {
		return w.Snapshot().TotalValue == "2.00"
	}, time.Second, 10*time.Millisecond)

	// The slow fetch lands afterwards and, being the latest completion,
	// replaces the snapshot.
	close(release)
	assert.Eventually(t, func() bool {
		return w.Snapshot().TotalValue == "1.00"
	}, time.Second, 10*time.Millisecond)
}

func TestNoUpdateAfterStop(t *testing.T) {
	w := NewWatcher(nil, time.Hour)
	w.Stop()

	w.apply(models.FundSnapshot{TotalValue: "999.00"})
	assert.Equal(t, "", w.Snapshot().TotalValue)
}

func TestStopIsIdempotent(t *testing.T) {
	w := NewWatcher(nil, time.Hour)
	w.Stop()
	w.Stop()
}

func TestPollingLoop(t *testing.T) {
	mockSource := new(MockFundSource)
	mockSource.On("FetchSnapshot", mock.Anything).Return(models.FundSnapshot{}).Maybe()

	w := NewWatcher(mockSource, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	time.Sleep(100 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)
}
