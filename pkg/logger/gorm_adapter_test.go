/*
Package logger - GORM logger adapter tests
*/
package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/event"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func withObservedLogger(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	original := log
	t.Cleanup(func() { log = original })

	core, logs := observer.New(zapcore.DebugLevel)
	log = zap.New(core)
	return logs
}

func TestGormLoggerAdapterLevels(t *testing.T) {
	testCases := []struct {
		name       string
		level      gormlogger.LogLevel
		wantInfo   bool
		wantWarn   bool
		wantTraced bool
	}{
		{"Warn Level", gormlogger.Warn, false, true, false},
		{"Info Level", gormlogger.Info, true, true, true},
		{"Silent Level", gormlogger.Silent, false, false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logs := withObservedLogger(t)
			adapter := NewGormLoggerAdapter(tc.level)

			adapter.Info(context.Background(), "info %s", "message")
			adapter.Warn(context.Background(), "warn %d", 1)
			adapter.Trace(context.Background(), time.Now(), func() (string, int64) {
				return "SELECT * FROM orders", 1
			}, nil)

			if got := logs.FilterMessage("info message").Len() == 1; got != tc.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tc.wantInfo)
			}
			if got := logs.FilterMessage("warn 1").Len() == 1; got != tc.wantWarn {
				t.Errorf("warn logged = %v, want %v", got, tc.wantWarn)
			}
			traced := logs.FilterMessage("SQL query executed").All()
			if got := len(traced) == 1; got != tc.wantTraced {
				t.Fatalf("trace logged = %v, want %v", got, tc.wantTraced)
			}
			if tc.wantTraced && traced[0].ContextMap()["sql"] != "SELECT * FROM orders" {
				t.Error("SQL query not found in trace log fields")
			}
		})
	}
}

func TestGormLoggerAdapterSlowQueryAndNotFound(t *testing.T) {
	logs := withObservedLogger(t)

	adapter := NewGormLoggerAdapterWithConfig(gormlogger.Warn, &GormLoggerConfig{
		SlowThreshold:             10 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
	})
	ctx := ContextWithRequestID(context.Background(), "test-request-123")

	adapter.Trace(ctx, time.Now().Add(-50*time.Millisecond), func() (string, int64) {
		return "SELECT * FROM cancellation_requests", 3
	}, nil)
	adapter.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM orders WHERE id = 'missing'", 0
	}, gormlogger.ErrRecordNotFound)
	adapter.Trace(ctx, time.Now(), func() (string, int64) {
		return "INSERT INTO orders", 0
	}, errors.New("duplicate entry"))

	slow := logs.FilterMessage("Slow SQL query").All()
	if len(slow) != 1 {
		t.Fatalf("expected one slow query entry, got %d", len(slow))
	}
	if slow[0].ContextMap()["request_id"] != "test-request-123" {
		t.Error("Request ID should be propagated from context")
	}
	if n := logs.FilterMessage("Database operation failed").Len(); n != 1 {
		t.Errorf("expected only the real failure to be logged, got %d entries", n)
	}

	t.Log("✓ GORM slow query and not-found handling passed")
}

func TestParseGormLevel(t *testing.T) {
	cases := map[string]gormlogger.LogLevel{
		"debug":  gormlogger.Info,
		"info":   gormlogger.Info,
		"warn":   gormlogger.Warn,
		"error":  gormlogger.Error,
		"silent": gormlogger.Silent,
		"":       gormlogger.Warn,
	}
	for in, want := range cases {
		if got := ParseGormLevel(in); got != want {
			t.Errorf("ParseGormLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestMongoCommandMonitor(t *testing.T) {
	logs := withObservedLogger(t)
	monitor := NewMongoCommandMonitor(100 * time.Millisecond)
	ctx := ContextWithRequestID(context.Background(), "req-mongo")

	fast := &event.CommandSucceededEvent{}
	fast.CommandName = "find"
	fast.DurationNanos = int64(time.Millisecond)
	monitor.Succeeded(ctx, fast)

	slow := &event.CommandSucceededEvent{}
	slow.CommandName = "aggregate"
	slow.DurationNanos = int64(time.Second)
	monitor.Succeeded(ctx, slow)

	failed := &event.CommandFailedEvent{Failure: "E11000 duplicate key"}
	failed.CommandName = "insert"
	monitor.Failed(ctx, failed)

	if n := logs.FilterMessage("Slow Mongo command").Len(); n != 1 {
		t.Fatalf("expected 1 slow command entry, got %d", n)
	}
	entries := logs.FilterMessage("Mongo command failed").All()
	if len(entries) != 1 || entries[0].ContextMap()["request_id"] != "req-mongo" {
		t.Fatalf("failed command not logged with request id: %+v", entries)
	}

	t.Log("✓ Mongo command monitor tests passed")
}
