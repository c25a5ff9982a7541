package logger

import (
	"github.com/hashicorp/go-retryablehttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type leveled struct {
	log zerolog.Logger
}

// Retryable routes retryablehttp's key/value logging into zerolog. Its chatter
// is demoted to debug.
func Retryable(log zerolog.Logger) retryablehttp.LeveledLogger {
	return leveled{log: log.With().Str("component", "http-client").Logger()}
}

func (l leveled) Error(msg string, kv ...interface{}) { l.log.Error().Fields(kv).Msg(msg) }
func (l leveled) Warn(msg string, kv ...interface{})  { l.log.Warn().Fields(kv).Msg(msg) }
func (l leveled) Info(msg string, kv ...interface{})  { l.log.Debug().Fields(kv).Msg(msg) }
func (l leveled) Debug(msg string, kv ...interface{}) { l.log.Debug().Fields(kv).Msg(msg) }

var _ retryablehttp.LeveledLogger = leveled{}

type cronLogger struct {
	log zerolog.Logger
}

// Cron adapts zerolog to the cron scheduler's logger.
func Cron(log zerolog.Logger) cron.Logger {
	return cronLogger{log: log.With().Str("component", "cron").Logger()}
}

func (l cronLogger) Info(msg string, kv ...interface{}) { l.log.Debug().Fields(kv).Msg(msg) }

func (l cronLogger) Error(err error, msg string, kv ...interface{}) {
	l.log.Error().Err(err).Fields(kv).Msg(msg)
}
