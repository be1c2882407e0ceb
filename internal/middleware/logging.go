// internal/middleware/logging.go
package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// LogMiddleware logs every request with its method, path, duration and
// remote address. Join links arrive from chat clients and link previews, so
// the access log is the main visibility into who is redeeming what.
func LogMiddleware(logger *logrus.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			logger.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
				"remote":   r.RemoteAddr,
			}).Info("HTTP Request")
		})
	}
}

// LogWatchConnect records a watch WebSocket attaching to a lobby feed.
func LogWatchConnect(logger *logrus.Logger, remoteAddr, lobbyID string) {
	logger.WithFields(logrus.Fields{
		"remote": remoteAddr,
		"lobby":  lobbyID,
	}).Info("watch connected")
}

// LogWatchDisconnect records a watch WebSocket detaching, with the error
// that ended it, if any.
func LogWatchDisconnect(logger *logrus.Logger, remoteAddr, lobbyID string, err error) {
	fields := logrus.Fields{
		"remote": remoteAddr,
		"lobby":  lobbyID,
	}
	if err != nil {
		fields["error"] = err
	}
	logger.WithFields(fields).Info("watch disconnected")
}
