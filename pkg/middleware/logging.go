package middleware

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/configuration"
	"github.com/planora/planora/pkg/constants"
	"github.com/planora/planora/pkg/httpapi"
)

var tracer = otel.Tracer("planora-middleware")

type statusWriter struct {
	http.ResponseWriter
	statusCode    int
	statusWritten bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.statusWritten {
		w.statusCode = code
		w.statusWritten = true
		w.ResponseWriter.WriteHeader(code)
	}
}

func (w *statusWriter) Status() int {
	if w.statusCode == 0 {
		return http.StatusOK
	}
	return w.statusCode
}

func (w *statusWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("underlying ResponseWriter does not implement http.Hijacker")
}

func getRealIP(r *http.Request, conf *configuration.Configuration) string {
	if len(r.Header.Get(conf.RealIPHeader)) > 0 {
		return r.Header.Get(conf.RealIPHeader)
	}
	return r.RemoteAddr
}

func getCorrelationID(r *http.Request, conf *configuration.Configuration) string {
	if len(r.Header.Get(conf.CorrelationHeader)) > 0 {
		return r.Header.Get(conf.CorrelationHeader)
	}
	return uuid.New().String()
}

// WithLogger attaches a request-scoped logger keyed by correlation id,
// opens a trace span and recovers panics into the standard error
// envelope.
func WithLogger(logger *logrus.Logger) mux.MiddlewareFunc {
	conf := configuration.Use()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			correlationID := getCorrelationID(r, conf)

			fieldsLogger := logger.WithFields(logrus.Fields{
				"correlationId": correlationID,
				"path":          r.URL.Path,
				"method":        r.Method,
			})

			propagator := propagation.TraceContext{}
			ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			ctx, span := tracer.Start(
				ctx,
				"http.request",
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.route", r.URL.Path),
					attribute.String("http.correlation_id", correlationID),
					attribute.String("net.peer.ip", getRealIP(r, conf)),
				),
			)
			defer span.End()

			ctx = composables.WithLogger(ctx, fieldsLogger)
			ctx = composables.WithCorrelationID(ctx, correlationID)
			ctx = context.WithValue(ctx, constants.RequestStartKey, start)
			ctx = composables.WithParams(ctx, &composables.Params{
				IP:        getRealIP(r, conf),
				UserAgent: r.UserAgent(),
				Request:   r,
				Writer:    w,
			})

			propagator.Inject(ctx, propagation.HeaderCarrier(w.Header()))
			w.Header().Set(conf.CorrelationHeader, correlationID)

			wrapped := &statusWriter{ResponseWriter: w}
			r = r.WithContext(ctx)

			defer func() {
				if recovered := recover(); recovered != nil {
					fieldsLogger.WithFields(logrus.Fields{
						"panic":    recovered,
						"stack":    string(debug.Stack()),
						"duration": time.Since(start),
					}).Error("panic recovered in request handler")

					if !wrapped.statusWritten {
						_ = httpapi.WriteError(
							wrapped, r,
							http.StatusInternalServerError,
							"INTERNAL_SERVER_ERROR",
							"internal server error",
						)
					}
				}
			}()

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			fieldsLogger.WithFields(logrus.Fields{
				"duration":   duration,
				"statusCode": wrapped.Status(),
			}).Info("request completed")

			span.SetAttributes(
				attribute.Int64("http.request_duration_ms", duration.Milliseconds()),
				attribute.Int("http.status_code", wrapped.Status()),
			)
		})
	}
}
