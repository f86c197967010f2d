package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rec, r)

		entry := logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.statusCode,
			"duration": time.Since(start).String(),
		})
		switch {
		case rec.statusCode >= 500:
			entry.Error("request failed")
		case rec.statusCode >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request handled")
		}
	})
}
