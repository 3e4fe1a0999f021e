package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestMake_Defaults(t *testing.T) {
	logger := Make(nil)

	if logger.Level() != DefaultLevel || logger.Format() != DefaultFormat {
		t.Errorf("level %v, format %v", logger.Level(), logger.Format())
	}

	if logger.caller || !logger.pretty {
		t.Errorf("config = %+v", logger.config)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name   string
		log    func(Logger, string, ...slog.Attr)
		min    Level
		logged bool
	}{
		{"trace at trace", Logger.Trace, LevelTrace, true},
		{"trace at debug", Logger.Trace, LevelDebug, false},
		{"debug at info", Logger.Debug, LevelInfo, false},
		{"info at info", Logger.Info, LevelInfo, true},
		{"info at warn", Logger.Info, LevelWarn, false},
		{"warn at warn", Logger.Warn, LevelWarn, true},
		{"error at error", Logger.Error, LevelError, true},
		{"error at trace", Logger.Error, LevelTrace, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.log(Make(&buf, WithLevel(tt.min)), "message")

			if logged := buf.Len() > 0; logged != tt.logged {
				t.Errorf("logged = %v, want %v: %s", logged, tt.logged, buf.String())
			}
		})
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false), WithLevel(LevelTrace))
	logger.With(slog.String("source", "main.nv")).
		TraceContext(t.Context(), "eval node", slog.Int("depth", 2))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	want := map[string]any{
		"level":  "TRACE",
		"msg":    "eval node",
		"source": "main.nv",
		"depth":  float64(2),
	}

	for k, v := range want {
		if rec[k] != v {
			t.Errorf("%s = %v, want %v", k, rec[k], v)
		}
	}
}

func TestLogger_Text(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithPretty(false), WithTimeLayout("none")).
		Warn("slow", slog.String("pass", "fold"))

	if got, want := buf.String(), "level=WARN msg=slow pass=fold\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestLogger_Pretty(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer

		logger := Make(&buf, WithTimeLayout("none"), WithLevel(LevelTrace)).
			With(slog.String("source", "a.nv"))

		logger.Trace("step", slog.Group("node", slog.String("kind", "call")), slog.Bool("ok", true))

		want := "level=TRACE msg=step source=a.nv node.kind=call ok=true\n"
		if buf.String() != want {
			t.Errorf("output = %q, want %q", buf.String(), want)
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer

		Make(&buf, WithTimeLayout("none"), WithFormat(FormatJSON)).
			Info("done", slog.Int("statements", 3))

		want := "{\n  level: INFO,\n  msg: done,\n  statements: 3\n}\n"
		if buf.String() != want {
			t.Errorf("output = %q, want %q", buf.String(), want)
		}
	})

	t.Run("group", func(t *testing.T) {
		var buf bytes.Buffer

		logger := Make(&buf, WithTimeLayout("none"))
		logger.Logger = logger.Logger.WithGroup("run")
		logger.Info("x", slog.Int("n", 1))

		if !strings.HasSuffix(buf.String(), " run.n=1\n") {
			t.Errorf("output = %q", buf.String())
		}
	})
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithCaller(true), WithPretty(false), WithFormat(FormatJSON)).Info("here")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("caller not reported in %s", buf.String())
	}

	buf.Reset()
	Make(&buf, WithPretty(false)).Info("here")

	if strings.Contains(buf.String(), "source") {
		t.Errorf("caller reported when disabled: %s", buf.String())
	}
}

func TestLogger_Wrap(t *testing.T) {
	var first, second bytes.Buffer

	base := Make(&first, WithLevel(LevelError))
	wrapped := base.Wrap(WithOutput(&second), WithLevel(LevelDebug))

	base.Info("dropped")
	wrapped.Debug("kept")

	if first.Len() != 0 {
		t.Errorf("base logger wrote %q", first.String())
	}

	if !strings.Contains(second.String(), "kept") {
		t.Errorf("wrapped logger wrote %q", second.String())
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	l.Trace("nothing")
	l.Error("nothing")

	if l.With(slog.String("k", "v")).Logger != nil {
		t.Error("With on the zero Logger produced a live logger")
	}

	if l.Enabled(t.Context(), LevelError) {
		t.Error("zero Logger reports enabled")
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var (
		buf bytes.Buffer
		wg  sync.WaitGroup
	)

	logger := Make(&buf)

	for i := range 100 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			logger.Info("concurrent", slog.Int("id", i))
		}()
	}

	wg.Wait()

	if lines := strings.Count(buf.String(), "\n"); lines != 100 {
		t.Errorf("got %d lines, want 100", lines)
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	var buf bytes.Buffer

	logger := Make(&buf).With(slog.String("component", "bench"))

	for b.Loop() {
		buf.Reset()
		logger.Info("message", slog.Int("n", 1))
	}
}
