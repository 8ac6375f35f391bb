package middleware

import (
	"net/http"
	"strconv"
	"time"

	"go-shop-ms/pkg/logging"
	"go-shop-ms/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const LocalLogger = "logger"

var propagator = propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})

// Observability combines:
// - X-Request-ID generation and echo
// - W3C trace context extraction
// - a request-scoped zap logger in Locals and the user context
// - one access log line and HTTP metrics per request
func Observability(base *zap.Logger, m *metrics.HTTP) fiber.Handler {
	if base == nil {
		base = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(fiber.HeaderXRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, rid)

		headers := http.Header(c.GetReqHeaders())
		ctx := propagator.Extract(c.UserContext(), propagation.HeaderCarrier(headers))

		fields := []zap.Field{zap.String("request_id", rid)}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				zap.String("trace_id", sc.TraceID().String()),
				zap.String("span_id", sc.SpanID().String()),
			)
		}
		reqLogger := base.With(fields...)
		c.Locals(LocalLogger, reqLogger)
		c.SetUserContext(logging.ContextWithLogger(ctx, reqLogger))

		err := c.Next()
		if err != nil {
			// Let the app error handler write the response now so the
			// status below is the final one.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		route := c.Route().Path
		elapsed := time.Since(start)

		m.Observe(c.Method(), route, strconv.Itoa(status), elapsed.Seconds())
		reqLogger.Info("http_request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
		)
		return nil
	}
}

// Logger returns the request logger, or a no-op logger outside a request.
func Logger(c *fiber.Ctx) *zap.Logger {
	if l, ok := c.Locals(LocalLogger).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}
