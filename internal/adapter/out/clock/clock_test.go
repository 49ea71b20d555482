package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManual_NowSetAdd(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)
	c := NewManual(start)
	require.True(t, c.Now().Equal(start))

	next := start.Add(10 * time.Minute)
	c.Set(next)
	require.True(t, c.Now().Equal(next))

	c.Add(5 * time.Second)
	require.True(t, c.Now().Equal(next.Add(5*time.Second)))
}

func TestManual_ConcurrentNow(t *testing.T) {
	t.Parallel()

	c := NewManual(time.Unix(0, 0).UTC())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(time.Millisecond)
			_ = c.Now()
		}()
	}
	wg.Wait()

	require.True(t, c.Now().Equal(time.Unix(0, 0).UTC().Add(20*time.Millisecond)))
}

func TestSystem_Now(t *testing.T) {
	t.Parallel()

	require.WithinDuration(t, time.Now(), System{}.Now(), time.Second)
}
