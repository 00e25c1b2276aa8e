/*
 * coredbg
 *
 * Copyright 2024 The coredbg authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

/*
Package dbglog provides structured, level-aware logging for the
debugger agent core. It generalizes the teacher's Logger /
LogLevelLogger / MemoryLogger family to log/slog, fanned out to stderr
and an in-memory ring buffer whose recent lines Tail returns.
*/
package dbglog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"

	"github.com/krotik/common/datautil"
)

/*
Logger is the logging surface the rest of the core depends on.
*/
type Logger interface {

	/*
		LogError adds a new error log message.
	*/
	LogError(op string, kind string, m ...interface{})

	/*
		LogInfo adds a new info log message.
	*/
	LogInfo(m ...interface{})

	/*
		LogDebug adds a new debug log message.
	*/
	LogDebug(m ...interface{})
}

/*
SlogLogger is the default Logger implementation. It wraps a slog.Logger
and additionally retains messages in a bounded ring buffer, read back
through Tail.
*/
type SlogLogger struct {
	logger *slog.Logger
	ring   *datautil.RingBuffer
	level  slog.LevelVar
}

/*
NewSlogLogger creates a logger which fans out to stderr (JSON) and an
in-memory ring buffer of the given size.
*/
func NewSlogLogger(w io.Writer, ringSize int) *SlogLogger {
	if w == nil {
		w = os.Stderr
	}

	sl := &SlogLogger{ring: datautil.NewRingBuffer(ringSize)}
	sl.level.Set(slog.LevelInfo)

	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: &sl.level})
	ringHandler := &ringBufferHandler{ring: sl.ring, level: &sl.level}

	handler := slogmulti.Fanout(jsonHandler, ringHandler)
	sl.logger = slog.New(handler)

	return sl
}

/*
SetLevel adjusts the minimum level which is forwarded to stderr and the
ring buffer.
*/
func (sl *SlogLogger) SetLevel(level slog.Level) {
	sl.level.Set(level)
}

/*
LogError adds a new error log message. Every call includes the failing
operation name and error kind, as spec.md §7 requires.
*/
func (sl *SlogLogger) LogError(op string, kind string, m ...interface{}) {
	sl.logger.Error(fmt.Sprint(m...), slog.String("op", op), slog.String("kind", kind))
}

/*
LogInfo adds a new info log message.
*/
func (sl *SlogLogger) LogInfo(m ...interface{}) {
	sl.logger.Info(fmt.Sprint(m...))
}

/*
LogDebug adds a new debug log message.
*/
func (sl *SlogLogger) LogDebug(m ...interface{}) {
	sl.logger.Debug(fmt.Sprint(m...))
}

/*
Tail returns the most recent log lines held in the ring buffer.
*/
func (sl *SlogLogger) Tail() []string {
	items := sl.ring.Slice()
	ret := make([]string, len(items))
	for i, l := range items {
		ret[i] = l.(string)
	}
	return ret
}

/*
ringBufferHandler is a minimal slog.Handler which appends formatted
records to a datautil.RingBuffer.
*/
type ringBufferHandler struct {
	ring  *datautil.RingBuffer
	level *slog.LevelVar
}

func (h *ringBufferHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *ringBufferHandler) Handle(_ context.Context, r slog.Record) error {
	line := fmt.Sprintf("%v [%v] %v", r.Time.Format("15:04:05"), r.Level, r.Message)
	r.Attrs(func(a slog.Attr) bool {
		line += fmt.Sprintf(" %v=%v", a.Key, a.Value)
		return true
	})
	h.ring.Add(line)
	return nil
}

func (h *ringBufferHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *ringBufferHandler) WithGroup(_ string) slog.Handler      { return h }

/*
NullLogger discards all log messages.
*/
type NullLogger struct{}

/*
NewNullLogger returns a null logger instance.
*/
func NewNullLogger() *NullLogger { return &NullLogger{} }

func (nl *NullLogger) LogError(op string, kind string, m ...interface{}) {}
func (nl *NullLogger) LogInfo(m ...interface{})                         {}
func (nl *NullLogger) LogDebug(m ...interface{})                        {}
