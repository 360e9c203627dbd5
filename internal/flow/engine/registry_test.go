package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryCurrentNilBeforeSwap(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Current())
}

func TestRegistrySwapReturnsPreviousID(t *testing.T) {
	r := NewRegistry()
	first := &Model{ID: "1"}
	second := &Model{ID: "2"}

	prev := r.Swap(first)
	assert.Equal(t, "", prev)

	prev = r.Swap(second)
	assert.Equal(t, "1", prev)
	assert.Equal(t, second, r.Current())
}

func TestRegistryConcurrentReadsNeverSeeTornState(t *testing.T) {
	r := NewRegistry()
	r.Swap(&Model{ID: "0", Nodes: map[string]*NodeDef{"a": {}}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m := r.Current()
			assert.NotNil(t, m)
			assert.NotNil(t, m.Nodes)
		}()
	}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Swap(&Model{ID: "x", Nodes: map[string]*NodeDef{"a": {}}})
		}(i)
	}
	wg.Wait()
}
