// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// LogFormatter adapts the logger to chi's request logger middleware.
// Entries are written at debug level, so request logging only shows up
// when the logger is set to debug.
type LogFormatter struct {
	logger LoggerInterface
}

func NewLogFormatter(logger LoggerInterface) *LogFormatter {
	f := new(LogFormatter)

	f.logger = logger

	return f
}

func (f *LogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	e := new(logEntry)

	e.logger = f.logger
	e.request = fmt.Sprintf("%s %s", r.Method, r.URL.Path)
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		e.request = fmt.Sprintf("[%s] %s", reqID, e.request)
	}

	return e
}

type logEntry struct {
	logger  LoggerInterface
	request string
}

func (e *logEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra any) {
	e.logger.Debugf("%s %d %dB in %s", e.request, status, bytes, elapsed)
}

func (e *logEntry) Panic(v any, stack []byte) {
	e.logger.Errorf("%s panicked: %v\n%s", e.request, v, stack)
}
