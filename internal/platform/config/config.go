// Package config reads settings from prefixed environment variables. Optional
// keys fall back to a default and log a warning when malformed; required keys
// panic at boot
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"bluebird/internal/platform/logger"
)

// Conf is a view over the environment under a prefix such as CORE_API_
type Conf struct{ prefix string }

func New() Conf { return Conf{} }

// Prefix nests p under the current prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) lookup(key string) (name, value string) {
	name = c.prefix + key
	return name, strings.TrimSpace(os.Getenv(name))
}

// MustString panics when key is unset or blank
func (c Conf) MustString(key string) string {
	name, v := c.lookup(key)
	if v == "" {
		logger.Get().Panic().Str("key", name).Msg("missing required env")
	}
	return v
}

// may parses key with parse, using def when unset or unparsable
func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	name, s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", name).Str("value", s).Interface("default", def).Msg("invalid env value, using default")
		return def
	}
	return v
}

func (c Conf) MayString(key, def string) string {
	return may(c, key, def, func(s string) (string, error) { return s, nil })
}

func (c Conf) MayInt(key string, def int) int { return may(c, key, def, strconv.Atoi) }

func (c Conf) MayBool(key string, def bool) bool { return may(c, key, def, strconv.ParseBool) }

func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

func (c Conf) MayFloat64(key string, def float64) float64 {
	return may(c, key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayCSV splits a comma separated list, dropping blanks; def when nothing is left
func (c Conf) MayCSV(key string, def []string) []string {
	_, s := c.lookup(key)
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns def when unset and panics on a value outside allowed,
// compared case insensitively
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return v
		}
	}
	logger.Get().Panic().Str("key", c.prefix+key).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
