package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		// Empty and root
		{"empty", "", nil},
		{"root", "/", nil},
		{"double_root", "//", nil},

		// Simple paths
		{"simple", "foo", []string{"foo"}},
		{"leading_slash", "/foo", []string{"foo"}},
		{"trailing_slash", "foo/", []string{"foo"}},
		{"both_slashes", "/foo/", []string{"foo"}},

		// Nested paths
		{"two_parts", "foo/bar", []string{"foo", "bar"}},
		{"three_parts", "/foo/bar/baz", []string{"foo", "bar", "baz"}},

		// Duplicate separators
		{"double_slash", "foo//bar", []string{"foo", "bar"}},
		{"many_slashes", "///foo///bar///", []string{"foo", "bar"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParsePath(tt.input)
			if tt.want == nil {
				assert.Empty(t, got.Segments, "ParsePath(%q)", tt.input)
			} else {
				assert.Equal(t, tt.want, got.Segments, "ParsePath(%q)", tt.input)
			}
		})
	}
}

func TestPathTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		n     int
		want  string
	}{
		{"drop_last", "a/b/c", 1, "a/b"},
		{"drop_two", "a/b/c", 2, "a"},
		{"drop_all", "a/b/c", 3, ""},
		{"drop_past_start", "a/b", 5, ""},
		{"drop_none", "a/b", 0, "a/b"},
		{"negative", "a/b", -1, "a/b"},
		{"empty", "", 1, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParsePath(tt.input).Truncate(tt.n)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestPathTruncateDoesNotAliasOriginal(t *testing.T) {
	t.Parallel()

	p := ParsePath("a/b/c")
	dir := p.Truncate(1)
	dir.Segments[0] = "x"
	assert.Equal(t, "a/b/c", p.String(), "truncated copy must not share backing array")
}

func TestPathTail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty_is_root", "", "/"},
		{"root_is_root", "/", "/"},
		{"single", "foo", "foo"},
		{"nested", "a/b/c", "c"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParsePath(tt.input).Tail())
		})
	}
}

func TestPathRoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"foo", "foo/bar", "a/b/c/d"} {
		assert.Equal(t, s, ParsePath(s).String())
		assert.Equal(t, s, ParsePath("/"+s+"/").String())
	}
}

func TestJoinPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a/b", JoinPath("a", "b").String())
	assert.Equal(t, "a/b", JoinPath("a", "", "b").String())
	assert.Equal(t, "", JoinPath().String())
	assert.True(t, JoinPath().IsEmpty())
	assert.True(t, JoinPath("/").IsEmpty())
}
