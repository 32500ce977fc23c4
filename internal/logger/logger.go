package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger тонкая обёртка над zerolog с привязкой к компоненту.
type Logger struct {
	z zerolog.Logger
}

// New создаёт логгер с заданным уровнем и выводом.
func New(w io.Writer, level zerolog.Level) *Logger {
	z := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &Logger{z: z}
}

// NewConsole создаёт логгер с человекочитаемым выводом в stdout.
func NewConsole(level zerolog.Level) *Logger {
	return New(zerolog.ConsoleWriter{Out: os.Stdout}, level)
}

// Nop создаёт логгер, отбрасывающий все записи. Удобен в тестах.
func Nop() *Logger {
	return &Logger{z: zerolog.Nop()}
}

// Component возвращает дочерний логгер с меткой компонента.
func (l *Logger) Component(name string) *Logger {
	return &Logger{z: l.z.With().Str("component", name).Logger()}
}

// Debug пишет отладочное сообщение с полями.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	emit(l.z.Debug(), msg, fields)
}

// Info пишет информационное сообщение с полями.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	emit(l.z.Info(), msg, fields)
}

// Warn пишет предупреждение с полями.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	emit(l.z.Warn(), msg, fields)
}

// Error пишет ошибку с полями.
func (l *Logger) Error(err error, msg string, fields map[string]interface{}) {
	emit(l.z.Error().Err(err), msg, fields)
}

func emit(event *zerolog.Event, msg string, fields map[string]interface{}) {
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

// ParseLevel преобразует строку в уровень zerolog, по умолчанию info.
func ParseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return level
}
