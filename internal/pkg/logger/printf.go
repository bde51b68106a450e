package logger

import (
	"errors"
	"fmt"
	"strings"
)

// PrintfLogger adapta o Logger às bibliotecas que registram via Printf/Fatalf
// (e.g., goose.SetLogger). As mensagens saem no mesmo formato JSON.
type PrintfLogger struct {
	Logger Logger
}

func (p PrintfLogger) Printf(format string, v ...interface{}) {
	p.Logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), nil)
}

func (p PrintfLogger) Fatalf(format string, v ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, v...))
	p.Logger.Fatal(msg, errors.New(msg))
}
