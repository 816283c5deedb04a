package database

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func slowQueryLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, nil))
}

func TestTraceQuery_SlowQueryLogged(t *testing.T) {
	var buf bytes.Buffer
	SetSlowQueryLogging(time.Nanosecond, slowQueryLogger(&buf))
	defer SetSlowQueryLogging(0, nil)

	_, end := TraceQuery(context.Background(), "ListRatings", "SELECT * FROM product_ratings")
	time.Sleep(time.Millisecond)
	end(nil)

	out := buf.String()
	if !strings.Contains(out, "slow query detected") {
		t.Fatalf("expected slow query warning, got %q", out)
	}
	if !strings.Contains(out, "ListRatings") {
		t.Errorf("expected operation name in log, got %q", out)
	}
}

func TestTraceQuery_SlowQueryIncludesError(t *testing.T) {
	var buf bytes.Buffer
	SetSlowQueryLogging(time.Nanosecond, slowQueryLogger(&buf))
	defer SetSlowQueryLogging(0, nil)

	_, end := TraceQuery(context.Background(), "GetProduct", "SELECT * FROM products")
	time.Sleep(time.Millisecond)
	end(errors.New("connection reset"))

	if !strings.Contains(buf.String(), "connection reset") {
		t.Errorf("expected error in slow query log, got %q", buf.String())
	}
}

func TestTraceQuery_DisabledThreshold_NoLog(t *testing.T) {
	var buf bytes.Buffer
	SetSlowQueryLogging(0, slowQueryLogger(&buf))

	_, end := TraceQuery(context.Background(), "GetProduct", "SELECT 1")
	end(nil)

	if buf.Len() != 0 {
		t.Errorf("expected no log output with zero threshold, got %q", buf.String())
	}
}

func TestTraceQuery_FastQuery_NotLogged(t *testing.T) {
	var buf bytes.Buffer
	SetSlowQueryLogging(time.Minute, slowQueryLogger(&buf))
	defer SetSlowQueryLogging(0, nil)

	_, end := TraceQuery(context.Background(), "GetProduct", "SELECT 1")
	end(nil)

	if buf.Len() != 0 {
		t.Errorf("fast query should not be logged, got %q", buf.String())
	}
}
