package gate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_Exclusive(t *testing.T) {
	g := New()
	var inside int
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = g.RunExclusive(context.Background(), func(ctx context.Context) error {
				inside++
				require.Equal(t, 1, inside, "two tasks admitted at once")
				time.Sleep(time.Millisecond)
				inside--
				return nil
			})
		}()
	}
	wg.Wait()
}

func TestGate_FIFO(t *testing.T) {
	g := New()
	var order []int
	var wg sync.WaitGroup

	// Hold the gate while the waiters queue up so arrival order is fixed.
	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = g.RunExclusive(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = g.RunExclusive(context.Background(), func(ctx context.Context) error {
				order = append(order, i)
				return nil
			})
		}()
		// Give each goroutine time to take its slot in the chain.
		time.Sleep(10 * time.Millisecond)
	}

	close(release)
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestGate_CancelWhileWaiting(t *testing.T) {
	g := New()

	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = g.RunExclusive(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := g.RunExclusive(ctx, func(ctx context.Context) error {
		t.Fatal("cancelled task must not run")
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	// The chain stays usable after an abandoned slot.
	close(release)
	ran := false
	err = g.RunExclusive(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestRun_ReturnsValue(t *testing.T) {
	g := New()
	got, err := Run(context.Background(), g, func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}
