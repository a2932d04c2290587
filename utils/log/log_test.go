package log_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/saloonhub/saloonstore/utils/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := log.WithFields(context.Background(), zap.String("caller", "u1"))
	ctx = log.WithFields(ctx, zap.Uint64("id", 7))

	log.WithContext(ctx, zap.New(core)).Info("hello")

	entries := logs.All()

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	if diff := cmp.Diff(map[string]interface{}{"caller": "u1", "id": uint64(7)}, entries[0].ContextMap()); diff != "" {
		t.Fatal(diff)
	}
}

func TestLoggerFromContext(t *testing.T) {
	defaultLogger := zap.NewNop()
	logger, ctx := log.LoggerFromContext(context.Background(), defaultLogger)

	if logger != defaultLogger {
		t.Fatalf("expected the default logger")
	}

	if log.Logger(ctx) != defaultLogger {
		t.Fatalf("expected the default logger to be attached to the context")
	}

	other := zap.NewExample()

	if logger, _ := log.LoggerFromContext(log.WithLogger(context.Background(), other), defaultLogger); logger != other {
		t.Fatalf("expected the context logger")
	}
}

func TestNew(t *testing.T) {
	testCases := map[string]struct {
		level       string
		development bool
		fail        bool
	}{
		"info-production":   {level: "info"},
		"debug-development": {level: "debug", development: true},
		"invalid-level":     {level: "loud", fail: true},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			logger, err := log.New(testCase.level, testCase.development)

			if testCase.fail {
				if err == nil {
					t.Fatalf("expected an error")
				}

				return
			}

			if err != nil {
				t.Fatalf("expected err to be nil, got %#v", err)
			}

			if logger == nil {
				t.Fatalf("expected a logger")
			}
		})
	}
}
