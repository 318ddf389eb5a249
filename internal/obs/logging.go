package obs

import (
	"io"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/mirror-api/internal/common"
)

// NewLogger builds the process logger writing to stdout. format "console"
// (or "text") switches to the human readable writer; an unknown level means info.
func NewLogger(format, level string) zerolog.Logger {
	return newLogger(os.Stdout, format, level)
}

func newLogger(w io.Writer, format, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "console", "text":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// RequestLogger writes one access log line per request.
type RequestLogger struct {
	Logger zerolog.Logger
	// Quiet lists paths logged at debug level, e.g. probe endpoints.
	Quiet []string
	// Slow marks requests at or above this duration with slow=true.
	Slow time.Duration
	// Proxies may report the client address; see common.Proxies.
	Proxies common.Proxies
}

// Middleware attaches a request-scoped child logger (zerolog.Ctx) carrying
// the request id and trace ids, then logs the outcome. 5xx responses log at
// error level and 4xx at warn.
func (l RequestLogger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		fields := l.Logger.With().Str("request_id", middleware.GetReqID(r.Context()))
		if sc := trace.SpanContextFromContext(r.Context()); sc.IsValid() {
			fields = fields.Str("trace_id", sc.TraceID().String()).Str("span_id", sc.SpanID().String())
		}
		scoped := fields.Logger()
		ctx, slot := common.WithUserSlot(scoped.WithContext(r.Context()))
		recorder := NewStatusRecorder(w)
		next.ServeHTTP(recorder, r.WithContext(ctx))

		elapsed := time.Since(start)
		status := recorder.Status()
		var evt *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			evt = scoped.Error()
		case status >= http.StatusBadRequest:
			evt = scoped.Warn()
		case slices.Contains(l.Quiet, r.URL.Path):
			evt = scoped.Debug()
		default:
			evt = scoped.Info()
		}
		evt = evt.
			Str("method", r.Method).
			Str("route", Route(r, r.URL.Path)).
			Str("path", r.URL.Path).
			Int("status", status).
			Int64("duration_ms", elapsed.Milliseconds()).
			Int64("bytes", recorder.BytesWritten()).
			Str("remote_addr", l.Proxies.ClientIP(r))
		if id := slot.ID(); id != "" {
			evt = evt.Str("user_id", id)
		}
		if ua := r.UserAgent(); ua != "" {
			evt = evt.Str("user_agent", ua)
		}
		if l.Slow > 0 && elapsed >= l.Slow {
			evt = evt.Bool("slow", true)
		}
		evt.Msg("http_request")
	})
}
