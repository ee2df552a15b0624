package kunit

import (
	"errors"
	"reflect"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestValidateName(t *testing.T) {
	for _, name := range []string{"x", "_x", "x1", "linear__f", "a_", "a___b", "größe"} {
		assert.NoError(t, ValidateName(name), name)
	}
	for _, name := range []string{"", "1x", "a-b", "a b", "a.b"} {
		err := ValidateName(name)
		assert.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrInvalidName))
	}
}

func TestUnitValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		u := New("f", func(args []any) (any, error) { return nil, nil }, "x", "y")
		assert.NoError(t, u.Validate())
	})

	t.Run("missing function", func(t *testing.T) {
		u := New("f", nil, "x")
		assert.True(t, errors.Is(u.Validate(), ErrInvalidUnit))
	})

	t.Run("duplicate parameter", func(t *testing.T) {
		u := New("f", func(args []any) (any, error) { return nil, nil }, "x", "x")
		assert.True(t, errors.Is(u.Validate(), ErrInvalidUnit))
	})

	t.Run("invalid parameter name", func(t *testing.T) {
		u := New("f", func(args []any) (any, error) { return nil, nil }, "not valid")
		assert.True(t, errors.Is(u.Validate(), ErrInvalidName))
	})
}

func TestRename(t *testing.T) {
	u := Func2("h", func(f, g float64) float64 { return g / f }, "f", "g")
	renamed := u.Rename("n__h", map[string]string{"f": "n__f"})

	assert.Equal(t, "n__h", renamed.Name)
	assert.Equal(t, []string{"n__f", "g"}, renamed.ParamNames())
	// the original record is untouched
	assert.Equal(t, "h", u.Name)
	assert.Equal(t, []string{"f", "g"}, u.ParamNames())

	out, err := renamed.Call([]any{2.0, 3.0})
	assert.NoError(t, err)
	assert.Equal(t, 1.5, out)
}

func TestTypedConstructors(t *testing.T) {
	t.Run("type tags are captured", func(t *testing.T) {
		u := Func2("f", func(x, y float64) float64 { return x*x + y*y }, "x", "y")
		assert.Equal(t, reflect.TypeOf(0.0), u.Returns)
		assert.Equal(t, reflect.TypeOf(0.0), u.Params[0].Type)
		assert.Equal(t, reflect.TypeOf(0.0), u.Params[1].Type)
	})

	t.Run("call", func(t *testing.T) {
		u := Func3("sum", func(a, b, c int) int { return a + b + c }, "a", "b", "c")
		out, err := u.Call([]any{1, 2, 3})
		assert.NoError(t, err)
		assert.Equal(t, 6, out)
	})

	t.Run("wrong argument type", func(t *testing.T) {
		u := Func1("double", func(x int) int { return 2 * x }, "x")
		_, err := u.Call([]any{"two"})
		assert.True(t, errors.Is(err, ErrArgumentType))
		assert.Contains(t, err.Error(), `parameter "x"`)
	})

	t.Run("wrong argument count", func(t *testing.T) {
		u := Func1("double", func(x int) int { return 2 * x }, "x")
		_, err := u.Call([]any{1, 2})
		assert.True(t, errors.Is(err, ErrArgumentCount))
	})

	t.Run("nil for nilable types", func(t *testing.T) {
		u := Func1("size", func(xs []int) int { return len(xs) }, "xs")
		out, err := u.Call([]any{nil})
		assert.NoError(t, err)
		assert.Equal(t, 0, out)
	})

	t.Run("no parameters", func(t *testing.T) {
		u := Func0("answer", func() int { return 42 })
		assert.Equal(t, 0, len(u.Params))
		out, err := u.Call(nil)
		assert.NoError(t, err)
		assert.Equal(t, 42, out)
	})

	t.Run("four parameters", func(t *testing.T) {
		u := Func4("join", func(a, b, c, d string) string { return a + b + c + d }, "a", "b", "c", "d")
		out, err := u.Call([]any{"w", "x", "y", "z"})
		assert.NoError(t, err)
		assert.Equal(t, "wxyz", out)
	})
}
