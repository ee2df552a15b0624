package ktree

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestJoinSplitRoundTrip(t *testing.T) {
	tests := []Path{
		{"a"},
		{"a", "b"},
		{"a_b", "c"},
		{"a", "_b"},
		{"a", "b_"},
		{"n1", "n2", "n3", "leaf"},
		{"x", "_"},
	}
	for _, p := range tests {
		t.Run(p.String(), func(t *testing.T) {
			assert.NoError(t, p.Validate())
			assert.Equal(t, p, SplitQualifiedName(JoinPath(p...)))
			assert.Equal(t, JoinPath(p...), p.QualifiedName())
		})
	}
}

func TestPathValidate(t *testing.T) {
	tests := []struct {
		name string
		path Path
		want error
	}{
		{"empty path", Path{}, ErrInvalidPath},
		{"empty segment", Path{"a", ""}, ErrInvalidPath},
		{"delimiter in segment", Path{"a__b", "c"}, ErrInvalidPath},
		{"trailing underscore in group", Path{"a_", "b"}, ErrTrailingUnderscore},
		{"trailing underscore deeper", Path{"a", "b_", "c"}, ErrTrailingUnderscore},
		{"not an identifier", Path{"1a"}, ErrInvalidPath},
		{"whitespace", Path{"a b"}, ErrInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.path.Validate()
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestPathAccessors(t *testing.T) {
	p := Path{"a", "b", "c"}
	assert.Equal(t, Path{"a", "b"}, p.Namespace())
	assert.Equal(t, "c", p.Leaf())
	assert.Equal(t, "(a, b, c)", p.String())
	assert.True(t, p.hasPrefix(Path{"a"}))
	assert.False(t, p.hasPrefix(Path{"b"}))
	assert.Equal(t, "", Path{}.Leaf())
	assert.Zero(t, Path{}.Namespace())
}

func TestDelimiter(t *testing.T) {
	assert.Equal(t, "__", Delimiter)
	assert.Equal(t, "a__b", JoinPath("a", "b"))
	assert.Equal(t, Path{"a", "b", "c"}, SplitQualifiedName("a__b__c"))
}
