package frameflow

import (
	"io"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to the Logger interface. Variadic
// args are attached as alternating key/value fields when they pair up,
// otherwise they are formatted into the message.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger builds a timestamped JSON logger writing to w.
func NewZerologLogger(w io.Writer, component string) *ZerologLogger {
	log := zerolog.New(w).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: log}
}

// WrapZerolog adapts an existing zerolog.Logger.
func WrapZerolog(log zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{log: log}
}

// Debug implements Logger.
func (z *ZerologLogger) Debug(msg string, args ...any) {
	z.emit(z.log.Debug(), msg, args)
}

// Info implements Logger.
func (z *ZerologLogger) Info(msg string, args ...any) {
	z.emit(z.log.Info(), msg, args)
}

// Error implements Logger.
func (z *ZerologLogger) Error(msg string, args ...any) {
	z.emit(z.log.Error(), msg, args)
}

func (z *ZerologLogger) emit(ev *zerolog.Event, msg string, args []any) {
	if len(args)%2 == 0 {
		for i := 0; i+1 < len(args); i += 2 {
			key, ok := args[i].(string)
			if !ok {
				ev.Msgf(msg, args...)
				return
			}
			ev = ev.Interface(key, args[i+1])
		}
		ev.Msg(msg)
		return
	}
	ev.Msgf(msg, args...)
}
