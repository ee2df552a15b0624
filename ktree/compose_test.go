package ktree

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kdags"
	"github.com/birdayz/kdags/kdag"
	"github.com/birdayz/kdags/kunit"
)

// exampleTree is linear={f(x)=0.5*x}, parabolic={f(x)=x**2, h(f, linear__f)=(f+linear__f)**2}.
func exampleTree() *Tree[kunit.Unit] {
	units := New[kunit.Unit]()
	units.Group("linear").
		Add("f", kunit.Func1("f", func(x float64) float64 { return 0.5 * x }, "x"))
	units.Group("parabolic").
		Add("f", kunit.Func1("f", func(x float64) float64 { return x * x }, "x")).
		Add("h", kunit.Func2("h", func(f, lf float64) float64 { return (f + lf) * (f + lf) }, "f", "linear__f"))
	return units
}

func exampleInputs(linearX, parabolicX float64) map[string]any {
	return map[string]any{
		"linear":    map[string]any{"x": linearX},
		"parabolic": map[string]any{"x": parabolicX},
	}
}

func TestCompose(t *testing.T) {
	ctx := context.Background()
	targets := TargetPaths(map[string]any{"parabolic": map[string]any{"h": nil}})

	t.Run("relative and absolute references", func(t *testing.T) {
		c, err := Compose(exampleTree(), targets)
		assert.NoError(t, err)
		assert.Equal(t, []string{"linear__f", "parabolic__f", "parabolic__h"}, c.Order())
		assert.Equal(t, []Path{{"linear", "x"}, {"parabolic", "x"}}, c.Inputs())

		got, err := c.Call(ctx, exampleInputs(1, 2))
		assert.NoError(t, err)
		assert.Equal(t, map[string]any{"parabolic": map[string]any{"h": 20.25}}, got)

		got, err = c.Call(ctx, exampleInputs(13, 2))
		assert.NoError(t, err)
		assert.Equal(t, map[string]any{"parabolic": map[string]any{"h": 110.25}}, got)
	})

	t.Run("qualified name targets", func(t *testing.T) {
		c := MustCompose(exampleTree(), []Path{SplitQualifiedName("linear__f"), {"parabolic", "f"}})
		got, err := c.Call(ctx, exampleInputs(4, 3))
		assert.NoError(t, err)
		assert.Equal(t, map[string]any{
			"linear":    map[string]any{"f": 2.0},
			"parabolic": map[string]any{"f": 9.0},
		}, got)
	})

	t.Run("all units", func(t *testing.T) {
		c := MustCompose(exampleTree(), nil)
		got, err := c.Call(ctx, exampleInputs(1, 2))
		assert.NoError(t, err)
		assert.Equal(t, map[string]any{
			"linear":    map[string]any{"f": 0.5},
			"parabolic": map[string]any{"f": 4.0, "h": 20.25},
		}, got)
	})

	t.Run("pruned inputs", func(t *testing.T) {
		c := MustCompose(exampleTree(), []Path{{"linear", "f"}})
		assert.Equal(t, []Path{{"linear", "x"}}, c.Inputs())
		assert.Equal(t, []string{"linear__x"}, c.Flat().Inputs())
	})

	t.Run("missing input", func(t *testing.T) {
		c := MustCompose(exampleTree(), targets)
		_, err := c.Call(ctx, map[string]any{"linear": map[string]any{"x": 1.0}})
		var argErr *kdags.ArgumentError
		assert.True(t, errors.As(err, &argErr))
		assert.Equal(t, []string{"parabolic__x"}, argErr.Missing)
	})

	t.Run("invalid input keys", func(t *testing.T) {
		c := MustCompose(exampleTree(), targets)
		_, err := c.Call(ctx, map[string]any{"linear_": map[string]any{"x": 1.0}})
		assert.True(t, errors.Is(err, ErrTrailingUnderscore))
	})

	t.Run("flat options", func(t *testing.T) {
		c := MustCompose(exampleTree(), targets, WithFlatOptions(kdags.WithEnforceSignature(false)))
		inputs := exampleInputs(1, 2)
		inputs["extra"] = 1
		got, err := c.Call(ctx, inputs)
		assert.NoError(t, err)
		assert.Equal(t, map[string]any{"parabolic": map[string]any{"h": 20.25}}, got)
	})

	t.Run("fixed top level with root input", func(t *testing.T) {
		units := New[kunit.Unit]()
		units.Group("tax").
			Add("due", kunit.Func2("due", func(income, rate float64) float64 { return income * rate }, "income", "rate"))
		units.Add("rate", kunit.Func0("rate", func() float64 { return 0.25 }))
		c, err := Compose(units, []Path{{"tax", "due"}},
			WithDerivedTopLevel(),
			WithRequiredInputs(map[string]any{"income": nil}),
		)
		assert.NoError(t, err)
		assert.Equal(t, []Path{{"income"}}, c.Inputs())
		got, err := c.Call(ctx, map[string]any{"income": 100.0})
		assert.NoError(t, err)
		assert.Equal(t, map[string]any{"tax": map[string]any{"due": 25.0}}, got)
	})

	t.Run("missing target", func(t *testing.T) {
		_, err := Compose(exampleTree(), []Path{{"parabolic", "nope"}})
		assert.True(t, errors.Is(err, kdags.ErrMissingUnit))
	})

	t.Run("cycle across groups", func(t *testing.T) {
		units := New[kunit.Unit]()
		units.Group("a").Add("f", identity("f", "b__g"))
		units.Group("b").Add("g", identity("g", "a__f"))
		_, err := Compose(units, nil)
		assert.True(t, errors.Is(err, kdags.ErrCycleDetected))
		assert.Contains(t, err.Error(), "a__f -> b__g -> a__f")
	})

	t.Run("must compose panics", func(t *testing.T) {
		assert.Panics(t, func() {
			MustCompose(New[kunit.Unit]().Add("f", identity("f")), nil)
		})
	})
}

func TestBuildGraph(t *testing.T) {
	g, err := BuildGraph(exampleTree(), []Path{{"parabolic", "h"}})
	assert.NoError(t, err)
	assert.Equal(t, []kdag.NodeID{"linear__f", "parabolic__f", "parabolic__h"}, g.Units())
	assert.Equal(t, []kdag.NodeID{"linear__x", "parabolic__x"}, g.FreeInputs())

	g, err = BuildGraph(exampleTree(), []Path{{"linear", "f"}})
	assert.NoError(t, err)
	assert.Equal(t, []kdag.NodeID{"linear__f"}, g.Units())

	_, err = BuildGraph(New[kunit.Unit]().Add("f", identity("f")), nil)
	assert.True(t, errors.Is(err, ErrInvalidPath))
}

func TestInputStructure(t *testing.T) {
	t.Run("typed inputs", func(t *testing.T) {
		got, err := InputStructure(exampleTree(), []Path{{"parabolic", "h"}})
		assert.NoError(t, err)
		float64Type := reflect.TypeOf(float64(0))
		assert.Equal(t, map[string]any{
			"linear":    map[string]any{"x": float64Type},
			"parabolic": map[string]any{"x": float64Type},
		}, got)
	})

	t.Run("untagged inputs", func(t *testing.T) {
		units := New[kunit.Unit]()
		units.Group("g").Add("f", identity("f", "a", "b"))
		got, err := InputStructure(units, nil)
		assert.NoError(t, err)
		assert.Equal(t, map[string]any{"g": map[string]any{"a": nil, "b": nil}}, got)
	})
}
