package collections_test

import (
	"testing"

	"bennypowers.dev/sfcgen/internal/collections"
	"github.com/stretchr/testify/assert"
)

func TestNewSet(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		s := collections.NewSet[string]()
		assert.NotNil(t, s)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("duplicates are collapsed", func(t *testing.T) {
		s := collections.NewSet("script", "template", "script")
		assert.Equal(t, 2, s.Len())
		assert.True(t, s.Has("script"))
		assert.True(t, s.Has("template"))
	})
}

func TestSetHasAny(t *testing.T) {
	s := collections.NewSet("template")

	assert.True(t, s.HasAny("script", "template"))
	assert.False(t, s.HasAny("script", "styles"))
	assert.False(t, s.HasAny())
}

func TestSorted(t *testing.T) {
	s := collections.NewSet("type", "id", "lang", "index")
	assert.Equal(t, []string{"id", "index", "lang", "type"}, collections.Sorted(s))
}

func TestSetString(t *testing.T) {
	s := collections.NewSet(1)
	assert.Equal(t, "[1]", s.String())
}
