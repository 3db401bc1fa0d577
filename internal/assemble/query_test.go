package assemble_test

import (
	"testing"

	"bennypowers.dev/sfcgen/internal/assemble"
	"bennypowers.dev/sfcgen/internal/sfc"
	"github.com/stretchr/testify/assert"
)

func attr(name, value string) sfc.Attr {
	return sfc.Attr{Name: name, Value: value, HasValue: true}
}

func boolAttr(name string) sfc.Attr {
	return sfc.Attr{Name: name}
}

func TestAttrsToQuery(t *testing.T) {
	tests := []struct {
		name     string
		attrs    []sfc.Attr
		fallback string
		force    bool
		want     string
	}{
		{
			name:     "reserved names are dropped",
			attrs:    []sfc.Attr{attr("id", "x"), attr("foo", "bar")},
			fallback: "css",
			want:     "&foo=bar&lang.css",
		},
		{
			name:     "every reserved name",
			attrs:    []sfc.Attr{attr("id", "1"), attr("index", "2"), attr("src", "a.css"), attr("type", "t"), boolAttr("module"), boolAttr("scoped"), attr("generic", "T")},
			fallback: "css",
			want:     "&lang.css",
		},
		{
			name:     "declared lang wins",
			attrs:    []sfc.Attr{attr("lang", "scss")},
			fallback: "css",
			want:     "&lang.scss",
		},
		{
			name:     "forced fallback beats declared lang",
			attrs:    []sfc.Attr{attr("lang", "pug")},
			fallback: "js",
			force:    true,
			want:     "&lang.js",
		},
		{
			name:     "boolean attribute has no value",
			attrs:    []sfc.Attr{boolAttr("global")},
			fallback: "css",
			want:     "&global&lang.css",
		},
		{
			name:     "empty value is encoded like a boolean attribute",
			attrs:    []sfc.Attr{attr("foo", "")},
			fallback: "css",
			want:     "&foo&lang.css",
		},
		{
			name:     "declaration order is kept",
			attrs:    []sfc.Attr{attr("b", "2"), attr("lang", "ts"), attr("a", "1")},
			fallback: "js",
			want:     "&b=2&a=1&lang.ts",
		},
		{
			name:     "percent encoding",
			attrs:    []sfc.Attr{attr("data-x", "a b&c=d/é"), attr("ok", "-_.!~*'()")},
			fallback: "json",
			want:     "&data-x=a%20b%26c%3Dd%2F%C3%A9&ok=-_.!~*'()&lang.json",
		},
		{
			name: "no lang at all",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, assemble.AttrsToQuery(tt.attrs, tt.fallback, tt.force))
		})
	}
}
