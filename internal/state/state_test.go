package state

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHolderInitial(t *testing.T) {
	assert.Equal(t, Initial, New().Get())

	var zero Holder
	assert.Equal(t, Initial, zero.Get())
}

func TestHolderSetReplaces(t *testing.T) {
	h := New()
	h.Set("first")
	h.Set("second")
	assert.Equal(t, "second", h.Get())

	h.Set("")
	assert.Equal(t, "", h.Get())
}

func TestHolderGetIsIdempotent(t *testing.T) {
	h := New()
	h.Set("Prompt: 'P'\n\nResponse:\nX")

	first := h.Get()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, h.Get())
	}
}

func TestHolderConcurrentAccess(t *testing.T) {
	h := New()
	written := make(map[string]bool)
	for i := 0; i < 50; i++ {
		written[fmt.Sprintf("value-%d", i)] = true
	}

	var wg sync.WaitGroup
	for v := range written {
		wg.Add(2)
		go func(v string) {
			defer wg.Done()
			h.Set(v)
		}(v)
		go func() {
			defer wg.Done()
			got := h.Get()
			assert.True(t, got == Initial || written[got], "observed torn value %q", got)
		}()
	}
	wg.Wait()

	assert.True(t, written[h.Get()])
}
