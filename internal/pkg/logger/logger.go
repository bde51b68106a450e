package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger define a interface para logging estruturado.
// A aplicação (Handler, Service, Adapters) deve depender apenas desta interface.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error)
	Fatal(msg string, err error)
	// With retorna um Logger filho com campos fixos (e.g., "component").
	With(fields map[string]interface{}) Logger
}

// ZeroLogger é a implementação concreta da interface Logger sobre o zerolog,
// com saída JSON estruturada.
type ZeroLogger struct {
	zl zerolog.Logger
}

// NewLogger cria um Logger JSON em stdout com o nível informado ("debug", "info", "warn", "error").
// Esta função é chamada nos main.go.
func NewLogger(level string) Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter permite redirecionar a saída (usado em testes).
func NewWithWriter(w io.Writer, level string) Logger {
	zl := zerolog.New(w).With().Timestamp().Logger().Level(parseLevel(level))
	return &ZeroLogger{zl: zl}
}

// NewNop descarta todos os logs.
func NewNop() Logger {
	return &ZeroLogger{zl: zerolog.Nop()}
}

// parseLevel traduz o nível configurado; valores desconhecidos caem em info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *ZeroLogger) Debug(msg string, fields map[string]interface{}) {
	l.zl.Debug().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Info(msg string, fields map[string]interface{}) {
	l.zl.Info().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Warn(msg string, fields map[string]interface{}) {
	l.zl.Warn().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Error(msg string, err error) {
	l.zl.Error().Err(err).Msg(msg)
}

// Fatal registra o erro e encerra o processo.
func (l *ZeroLogger) Fatal(msg string, err error) {
	l.zl.Fatal().Err(err).Msg(msg)
}

func (l *ZeroLogger) With(fields map[string]interface{}) Logger {
	return &ZeroLogger{zl: l.zl.With().Fields(fields).Logger()}
}
