package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	pnet "bluebird/internal/platform/net"
	kit "bluebird/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":    zerolog.DebugLevel,
		" WARN ":   zerolog.WarnLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"":         zerolog.InfoLevel,
		"shouting": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v want %v", in, got, want)
		}
	}
}

func TestBuild_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := build(Options{Level: "debug", Service: "bluebird-api", Writer: &buf, Fields: map[string]string{"env": "test"}})
	l.Debug().Msg("booted")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("not json: %v %q", err, buf.String())
	}
	if line["service"] != "bluebird-api" || line["env"] != "test" || line["message"] != "booted" {
		t.Fatalf("line %v", line)
	}
}

func TestBuild_ConsoleAndLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := build(Options{Level: "warn", Format: "console", Writer: &buf})
	l.Info().Msg("dropped")
	l.Warn().Msg("kept")
	out := buf.String()
	kit.MustContain(t, out, "kept")
	if bytes.Contains(buf.Bytes(), []byte("dropped")) {
		t.Fatalf("info leaked at warn: %q", out)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "Console")
	t.Setenv("LOG_CALLER", "yes")
	t.Setenv("LOG_SAMPLE_EVERY", "3")
	opt := FromEnv()
	if opt.Level != "debug" || opt.Format != "console" || !opt.WithCaller || opt.SampleEvery != 3 || opt.Service != "bluebird" {
		t.Fatalf("%+v", opt)
	}
}

func TestC_TagsRequestAndUser(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "debug", Writer: &buf})

	ctx := pnet.WithUser(pnet.WithRequest(context.Background(), "req-9"), pnet.User{ID: "u-1"})
	l := C(ctx).Output(&buf).Level(zerolog.DebugLevel)
	l.Info().Msg("edit")
	kit.MustContain(t, buf.String(), `"request_id":"req-9"`)
	kit.MustContain(t, buf.String(), `"user_id":"u-1"`)

	buf.Reset()
	n := Named("charts").Output(&buf).Level(zerolog.DebugLevel)
	n.Info().Msg("x")
	kit.MustContain(t, buf.String(), `"component":"charts"`)
}
