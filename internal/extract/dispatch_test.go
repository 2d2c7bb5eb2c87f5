package extract

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoopRunsInOrder(t *testing.T) {
	loop := NewLoop()
	defer loop.Close()

	var got []int
	for i := 0; i < 100; i++ {
		i := i
		loop.Do(func() { got = append(got, i) })
	}
	loop.Flush()

	assert.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestLoopConcurrentPosters(t *testing.T) {
	loop := NewLoop()
	defer loop.Close()

	count := 0
	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				loop.Do(func() { count++ })
			}
		}()
	}
	wg.Wait()
	loop.Flush()

	assert.Equal(t, 400, count, "closures run serially on the loop goroutine")
}

func TestLoopCloseDrainsThenDrops(t *testing.T) {
	loop := NewLoop()

	ran := 0
	for i := 0; i < 10; i++ {
		loop.Do(func() { ran++ })
	}
	loop.Close()
	assert.Equal(t, 10, ran)

	loop.Do(func() { ran++ })
	loop.Flush()
	loop.Close()
	assert.Equal(t, 10, ran, "closures posted after Close are dropped")
}

func TestAliveFlag(t *testing.T) {
	var f AliveFlag
	assert.False(t, f.Alive())
	f.Set(true)
	assert.True(t, f.Alive())
	f.Set(false)
	assert.False(t, f.Alive())
}

func TestDispatcherFunc(t *testing.T) {
	called := false
	d := DispatcherFunc(func(fn func()) { fn() })
	d.Do(func() { called = true })
	assert.True(t, called)
}
