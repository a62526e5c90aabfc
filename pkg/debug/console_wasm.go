//go:build js && wasm
// +build js,wasm

package debug

import (
	"log/slog"
	"strings"
	"syscall/js"
)

// consoleWriter forwards each formatted record to console.log
type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) {
	js.Global().Get("console").Call("log", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// EnableLogging routes graphview logs to the browser console
func EnableLogging(level slog.Level) {
	SetLogger(slog.New(slog.NewTextHandler(consoleWriter{}, &slog.HandlerOptions{Level: level})))
}
