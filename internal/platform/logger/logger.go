// Package logger owns the process zerolog root and hands out child loggers
// tagged with a component or with the request in flight
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"bluebird/internal/platform/config/raw"
	pnet "bluebird/internal/platform/net"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

type Logger = zerolog.Logger

// Options for the root logger. Format "console" is human readable, anything
// else is JSON lines
type Options struct {
	Level       string
	Format      string
	Service     string
	Writer      io.Writer
	WithCaller  bool
	SampleEvery int
	Fields      map[string]string
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE, LOG_CALLER and LOG_SAMPLE_EVERY
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:       rc.Get("LEVEL", "info"),
		Format:      strings.ToLower(rc.Get("FORMAT", "json")),
		Service:     rc.Get("SERVICE", "bluebird"),
		WithCaller:  rc.GetBool("CALLER", false),
		SampleEvery: rc.GetInt("SAMPLE_EVERY", 0),
	}
}

var (
	mu   sync.RWMutex
	root *Logger
)

// Init installs the root logger. Calls after the first are ignored
func Init(opt Options) {
	mu.Lock()
	defer mu.Unlock()
	if root == nil {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := build(opt)
		root = &l
	}
}

// Get is the root logger, initialised from the environment on first use
func Get() *Logger {
	mu.RLock()
	l := root
	mu.RUnlock()
	if l == nil {
		Init(FromEnv())
		mu.RLock()
		l = root
		mu.RUnlock()
	}
	return l
}

func build(opt Options) Logger {
	var w io.Writer = os.Stdout
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	lc := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
	if opt.Service != "" {
		lc = lc.Str("service", opt.Service)
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		lc = lc.Str("go_version", bi.GoVersion)
	}
	for k, v := range opt.Fields {
		lc = lc.Str(k, v)
	}
	if opt.WithCaller {
		lc = lc.Caller()
	}
	l := lc.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return l
}

// parseLevel defaults to info on anything zerolog does not know
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// C is a child of the root tagged with the request and user ids found in ctx
func C(ctx context.Context) *Logger {
	lc := Get().With()
	if id := pnet.RequestID(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	if id := pnet.UserID(ctx); id != "" {
		lc = lc.Str("user_id", id)
	}
	l := lc.Logger()
	return &l
}

// Named is a child of the root with a component field
func Named(component string) *Logger {
	l := Get().With().Str("component", component).Logger()
	return &l
}
