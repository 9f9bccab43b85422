package progress

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSteps(t *testing.T) {
	var e Event
	e.SetTotalSteps(3)
	e.SetStep(0)
	assert.False(t, e.Finished())

	e.IncrementStep(1)
	e.IncrementStep(1)
	assert.Equal(t, 2, e.Snapshot().Step)
	assert.False(t, e.Finished())

	e.IncrementStep(5)
	s := e.Snapshot()
	assert.Equal(t, 3, s.Step, "step must be clamped to total")
	assert.True(t, e.Finished())

	e.Reset()
	assert.Equal(t, Snapshot{}, e.Snapshot())
}

func TestConcurrentCounters(t *testing.T) {
	var e Event
	e.SetTotalSteps(100)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e.IncrementStep(1)
			e.SetCounters(int64(i), 100)
		}(i)
	}
	wg.Wait()
	assert.True(t, e.Finished())
	assert.Equal(t, int64(100), e.Snapshot().Total)
}

func TestStatusCode(t *testing.T) {
	var e Event
	e.SetStatusCode(404)
	assert.Equal(t, 404, e.StatusCode())
	e.SetMessage("downloading")
	assert.Equal(t, "downloading", e.Snapshot().Message)
}
