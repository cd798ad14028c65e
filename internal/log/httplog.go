package log

import (
	"time"
)

// LogHTTPRequest logs one HTTP request/response pair as a structured entry.
// Errors from handlers surface in the response status, so status >= 500 is
// logged at error level.
func LogHTTPRequest(method, path string, status int, duration time.Duration, size int, remoteAddr string) {
	l := GetSugaredLogger()

	fields := []interface{}{
		"method", method,
		"path", path,
		"status", status,
		"duration_ms", duration.Milliseconds(),
		"size", size,
		"remote_addr", remoteAddr,
	}

	if status >= 500 {
		l.Errorw("http request", fields...)
		return
	}
	l.Infow("http request", fields...)
}
