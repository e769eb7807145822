// Package ulogger wraps zerolog the way blockstatsd's teacher codebase does:
// a pretty, colorized console writer by default, a plain writer when
// NO_COLOR is set or pretty logging is disabled, and a small passthrough API
// so call sites don't depend on zerolog directly.
package ulogger

import (
	"fmt"
	"os"
	"strings"

	"github.com/ordishs/gocore"
	"github.com/rs/zerolog"
)

// Logger is the logging surface used throughout blockstatsd.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	With(service string) Logger
}

type zLogger struct {
	zerolog.Logger
	service string
}

// New builds a Logger for service, honoring gocore's PRETTY_LOGS setting and
// an optional explicit log level ("debug", "info", "warn", "error").
func New(service string, logLevel ...string) Logger {
	if service == "" {
		service = "blockstatsd"
	}

	var l zerolog.Logger
	if gocore.Config().GetBool("PRETTY_LOGS", true) {
		l = zerolog.New(prettyWriter()).With().Timestamp().Str("service", service).Logger()
	} else {
		l = zerolog.New(os.Stdout).With().Timestamp().Str("service", service).Logger()
	}

	if len(logLevel) > 0 {
		if lvl, err := zerolog.ParseLevel(strings.ToLower(logLevel[0])); err == nil {
			l = l.Level(lvl)
		}
	}

	return &zLogger{Logger: l, service: service}
}

func prettyWriter() zerolog.ConsoleWriter {
	w := zerolog.NewConsoleWriter()
	w.Out = os.Stdout
	w.TimeFormat = "15:04:05.000"
	w.NoColor = noColor()
	return w
}

func noColor() bool {
	_, disabled := os.LookupEnv("NO_COLOR")
	return disabled
}

func (z *zLogger) Debugf(format string, args ...interface{}) { z.Logger.Debug().Msg(fmt.Sprintf(format, args...)) }
func (z *zLogger) Infof(format string, args ...interface{})  { z.Logger.Info().Msg(fmt.Sprintf(format, args...)) }
func (z *zLogger) Warnf(format string, args ...interface{})  { z.Logger.Warn().Msg(fmt.Sprintf(format, args...)) }
func (z *zLogger) Errorf(format string, args ...interface{}) { z.Logger.Error().Msg(fmt.Sprintf(format, args...)) }
func (z *zLogger) Fatalf(format string, args ...interface{}) { z.Logger.Fatal().Msg(fmt.Sprintf(format, args...)) }

func (z *zLogger) With(service string) Logger {
	return &zLogger{Logger: z.Logger.With().Str("component", service).Logger(), service: z.service}
}
