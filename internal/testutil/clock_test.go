package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock_Stopped(t *testing.T) {
	clock := NewFixedClock(Date(2026, time.October, 14))
	assert.Equal(t, clock.Now(), clock.Now())
	assert.Equal(t, 2026, clock.Now().Year())
}

func TestFixedClock_SetAndAdvance(t *testing.T) {
	clock := NewFixedClock(Date(2020, time.January, 1))

	clock.Advance(24 * time.Hour)
	assert.Equal(t, Date(2020, time.January, 2), clock.Now())

	clock.Set(Date(1980, time.June, 30))
	assert.Equal(t, Date(1980, time.June, 30), clock.Now())
}

func TestFixedClock_ConcurrentAccess(t *testing.T) {
	clock := NewFixedClock(Date(2020, time.January, 1))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Advance(time.Second)
			_ = clock.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, Date(2020, time.January, 1).Add(50*time.Second), clock.Now())
}

func TestSequentialIDs(t *testing.T) {
	ids := NewSequentialIDs("q")
	assert.Equal(t, "q-0001", ids.Generate())
	assert.Equal(t, "q-0002", ids.Generate())

	assert.Equal(t, "id-0001", NewSequentialIDs("").Generate())
}
