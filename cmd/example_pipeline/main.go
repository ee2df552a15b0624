package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/birdayz/kdags"
	"github.com/birdayz/kdags/kdag"
	"github.com/birdayz/kdags/ktree"
	"github.com/birdayz/kdags/kunit"
	"github.com/birdayz/kdags/pkg/log"
)

func main() {
	ctx := context.Background()
	logger := log.New()
	slogger := log.NewSlog(slog.LevelDebug)

	units := []kunit.Unit{
		kunit.Func2("f", func(x, y float64) float64 { return x*x + y*y }, "x", "y"),
		kunit.Func2("g", func(y, z float64) float64 { return 0.5 * y * z }, "y", "z"),
		kunit.Func2("h", func(f, g float64) float64 { return g / f }, "f", "g"),
	}

	h := kdags.MustCompose(units, []string{"h"}, kdags.WithLogr(log.NewLogr()), kdags.WithSetSignature(true))
	v, err := h.Call(ctx, map[string]any{"x": 1.0, "y": 2.0, "z": 3.0})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to call h")
		os.Exit(1)
	}
	sig, _ := h.Signature()
	logger.Info().Interface("result", v).Str("signature", sig.String()).Strs("order", h.Order()).Msg("Single target")

	all := kdags.MustCompose(units, []string{"h", "f", "g"},
		kdags.WithLog(slogger),
		kdags.WithOrdering(kdag.LexicographicOrder),
	)
	v, err = all.CallPositional(ctx, 1.0, 2.0, 3.0)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to call h, f, g")
		os.Exit(1)
	}
	logger.Info().Interface("result", v).Msg("Mapping")

	constraints := []kunit.Unit{
		kunit.Func1("positive", func(x float64) bool { return x > 0 }, "x"),
		kunit.Func1("bounded", func(x float64) bool { return x < 10 }, "x"),
	}
	check := kdags.MustCompose(constraints, nil, kdags.WithAggregator(kdags.All()))
	for _, x := range []float64{5, 50} {
		ok, err := check.Call(ctx, map[string]any{"x": x})
		if err != nil {
			logger.Error().Err(err).Msg("Failed to check constraints")
			os.Exit(1)
		}
		logger.Info().Float64("x", x).Interface("ok", ok).Msg("Constraints")
	}

	tree := ktree.New[kunit.Unit]()
	tree.Group("linear").
		Add("f", kunit.Func1("f", func(x float64) float64 { return 0.5 * x }, "x"))
	tree.Group("parabolic").
		Add("f", kunit.Func1("f", func(x float64) float64 { return x * x }, "x")).
		Add("h", kunit.Func2("h", func(f, lf float64) float64 { return (f + lf) * (f + lf) }, "f", "linear__f"))

	targets := ktree.TargetPaths(map[string]any{"parabolic": map[string]any{"h": nil}})
	template, err := ktree.InputStructure(tree, targets)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to derive input structure")
		os.Exit(1)
	}
	logger.Info().Str("inputs", fmt.Sprint(template)).Msg("Input structure")

	tc := ktree.MustCompose(tree, targets, ktree.WithLog(slogger))
	out, err := tc.Call(ctx, map[string]any{
		"linear":    map[string]any{"x": 13.0},
		"parabolic": map[string]any{"x": 2.0},
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to call tree")
		os.Exit(1)
	}
	logger.Info().Interface("result", out).Msg("Tree")
}
