package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	// EnvDebug sets the log level: 0/false = INFO (default), 1/true =
	// DEBUG, 2 = TRACE.
	EnvDebug = "GRIDSELECT_DEBUG"

	// EnvNoUpdateCheck disables the periodic release check.
	EnvNoUpdateCheck = "GRIDSELECT_NO_UPDATE_CHECK"
)

// Var returns an environment variable stripped of surrounding quotes and
// spaces.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// Bool reads a boolean environment variable. Unset is false; a value that
// does not parse as a bool counts as true.
func Bool(key string) bool {
	s := Var(key)
	if s == "" {
		return false
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return true
	}
	return b
}

// LogLevel returns the log level configured via GRIDSELECT_DEBUG.
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var(EnvDebug); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}
	return level
}

// NoUpdateCheck reports whether GRIDSELECT_NO_UPDATE_CHECK is set.
func NoUpdateCheck() bool {
	return Bool(EnvNoUpdateCheck)
}
