package sfc_test

import (
	"sync"
	"testing"

	"bennypowers.dev/sfcgen/internal/sfc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	c := sfc.NewCache()
	assert.Nil(t, c.Get("App.vue"))

	d := &sfc.Descriptor{Filename: "App.vue"}
	c.Record("App.vue", d)
	assert.Same(t, d, c.Get("App.vue"))
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Forget("App.vue"))
	assert.Nil(t, c.Get("App.vue"))
	assert.Error(t, c.Forget("App.vue"))
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := sfc.NewCache()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := []string{"A.vue", "B.vue"}[i%2]
			c.Record(name, &sfc.Descriptor{Filename: name})
			_ = c.Get(name)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 2, c.Len())
}
