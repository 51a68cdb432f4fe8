package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"
)

// maxLoggedBody bounds how much of a request body RequestLog records.
const maxLoggedBody = 4 << 10

// redacted replaces credential header values in request logs.
const redacted = "[REDACTED]"

var sensitiveHeaders = []string{"Authorization", "Cookie", "Proxy-Authorization"}

// NewRequestLog returns a middleware that records who sent each request
// and what it carried: user, device, time, headers, method, path, client
// address, request data and query parameters. Credential headers are
// redacted. JSON and form bodies up to 4 KiB are logged and restored for
// the next handler.
func NewRequestLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if log.Enabled(r.Context(), slog.LevelInfo) {
				log.InfoContext(r.Context(), "Request Log",
					"user", userOrAnonymous(r),
					"device", device(r),
					"time", time.Now().Format(time.DateTime),
					"headers", headers(r),
					"method", r.Method,
					"path", r.URL.Path,
					"ip_address", r.RemoteAddr,
					"request_data", requestData(r),
					"query_params", r.URL.Query(),
				)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func device(r *http.Request) string {
	if ua := r.UserAgent(); ua != "" {
		return ua
	}
	return "Unknown Device"
}

func headers(r *http.Request) map[string]string {
	out := make(map[string]string, len(r.Header))
	for k, v := range r.Header {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	for _, k := range sensitiveHeaders {
		if _, ok := out[k]; ok {
			out[k] = redacted
		}
	}
	return out
}

// requestData peeks at the body and puts it back. Bodies that are not JSON
// or form encoded, or that exceed maxLoggedBody, are summarized instead.
func requestData(r *http.Request) any {
	if r.Body == nil || r.Body == http.NoBody {
		return map[string]any{}
	}
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "application/json" && mt != "application/x-www-form-urlencoded" {
		return map[string]any{"content_type": mt, "content_length": r.ContentLength}
	}

	buf, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody+1))
	r.Body = readCloser{io.MultiReader(bytes.NewReader(buf), r.Body), r.Body}
	if err != nil || len(buf) > maxLoggedBody {
		return map[string]any{"content_type": mt, "truncated": true}
	}

	if mt == "application/json" {
		var v any
		if json.Unmarshal(buf, &v) == nil {
			return v
		}
	}
	return string(buf)
}

// readCloser replays a peeked body while closing the original.
type readCloser struct {
	io.Reader
	io.Closer
}
