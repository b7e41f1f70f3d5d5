package common

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := NewSet[string]("a", "b")

	assert.Equal(t, 2, s.Length())
	assert.True(t, s.Exists("a"))
	assert.False(t, s.Exists("c"))

	assert.True(t, s.Add("c"))
	assert.False(t, s.Add("c"), "adding an existing value should return false")
	assert.Equal(t, 3, s.Length())

	assert.True(t, s.Remove("c"))
	assert.False(t, s.Remove("c"), "removing a missing value should return false")
	assert.False(t, s.Exists("c"))
}

func TestSetConcurrent(t *testing.T) {
	s := NewSet[int]()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Add(i % 10)
			s.Exists(i % 10)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, s.Length())
}
