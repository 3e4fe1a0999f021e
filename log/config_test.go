package log

import (
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{" debug ", LevelDebug},
		{"Info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"INFO+2", Level(2)},
		{"verbose", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	if got := LevelTrace.String(); got != "trace" {
		t.Errorf("LevelTrace = %q", got)
	}

	if got := Level(2).String(); got != "INFO+2" {
		t.Errorf("Level(2) = %q", got)
	}

	for name := range Levels() {
		if got := ParseLevel(name).String(); got != name {
			t.Errorf("round trip of %q = %q", name, got)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"text", "json"}) {
		t.Errorf("Formats() = %v", got)
	}
}

func TestOptions(t *testing.T) {
	c := apply(config{},
		WithLevel(LevelWarn),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(false),
		WithOutput(nil),
	)

	if c.level != LevelWarn || c.format != FormatJSON || !c.caller || c.pretty {
		t.Errorf("config = %+v", c)
	}

	if c.output == nil {
		t.Error("nil output not replaced")
	}
}

func TestWithTimeLayout(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"named", "RFC3339", "2023-10-15T14:30:45Z"},
		{"named ignoring punctuation", "rfc-3339-nano", "2023-10-15T14:30:45.123456789Z"},
		{"short name", "ms", "Oct 15 14:30:45.123"},
		{"kitchen", "Kitchen", "2:30PM"},
		{"custom verbatim", "2006/01/02 15h", "2023/10/15 14h"},
		{"none", "none", ""},
		{"empty", "", ""},
		{"whitespace", " \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := WithTimeLayout(tt.layout)(config{})
			if got := c.stamp(now); got != tt.want {
				t.Errorf("stamp = %q, want %q", got, tt.want)
			}
		})
	}
}

func BenchmarkFormatTime(b *testing.B) {
	stamp := makeFormatTimeFunc("RFC3339Nano")
	now := time.Now()

	for b.Loop() {
		_ = stamp(now)
	}
}
