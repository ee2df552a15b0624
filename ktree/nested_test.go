package ktree

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"go.uber.org/multierr"
)

func TestFlattenUnflatten(t *testing.T) {
	nested := map[string]any{
		"a": 1,
		"b": map[string]any{
			"c": "x",
			"d": map[string]any{"e": nil},
		},
		"f_": 2.5,
	}

	flat, err := Flatten(nested)
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b__c": "x", "b__d__e": nil, "f_": 2.5}, flat)

	back, err := Unflatten(flat)
	assert.NoError(t, err)
	assert.Equal(t, nested, back)
}

func TestFlattenDropsEmptyGroups(t *testing.T) {
	flat, err := Flatten(map[string]any{"a": map[string]any{}, "b": 1})
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"b": 1}, flat)
}

func TestFlattenInvalidKeys(t *testing.T) {
	_, err := Flatten(map[string]any{
		"a_":   map[string]any{"b": 1},
		"c__d": 2,
		"ok":   3,
	})
	assert.Error(t, err)
	assert.Equal(t, 2, len(multierr.Errors(err)))
	assert.True(t, errors.Is(err, ErrTrailingUnderscore))
	assert.True(t, errors.Is(err, ErrInvalidPath))
}

func TestUnflattenConflict(t *testing.T) {
	_, err := Unflatten(map[string]any{"a": 1, "a__b": 2})
	assert.True(t, errors.Is(err, ErrInvalidPath))
	assert.Contains(t, err.Error(), "(a) is both a leaf and a group")
}

func TestFlattenPaths(t *testing.T) {
	paths := FlattenPaths(map[string]any{
		"z": nil,
		"a": map[string]any{"y": nil, "b": nil},
	})
	assert.Equal(t, []Path{{"a", "b"}, {"a", "y"}, {"z"}}, paths)
	assert.Zero(t, FlattenPaths(nil))
}

func TestTargetPaths(t *testing.T) {
	targets := TargetPaths(map[string]any{"parabolic": map[string]any{"h": nil}})
	assert.Equal(t, []Path{{"parabolic", "h"}}, targets)
}
