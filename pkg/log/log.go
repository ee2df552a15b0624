package log

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/lmittmann/tint"
	"github.com/rs/zerolog"
)

func inKubernetes() bool {
	return os.Getenv("KUBERNETES_SERVICE_HOST") != ""
}

func New() *zerolog.Logger {
	var output io.Writer
	if inKubernetes() {
		output = os.Stderr
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02T15:04:05.999Z07:00"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	logger := zerolog.New(output).With().Timestamp().Logger()
	return &logger
}

// NewLogr returns New as a logr.Logger, for kdags.WithLogr.
func NewLogr() logr.Logger {
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"
	return zerologr.New(New())
}

// NewSlog returns a colored terminal logger at the given level, or a JSON
// logger on stderr when running in Kubernetes.
func NewSlog(level slog.Level) *slog.Logger {
	if inKubernetes() {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}
