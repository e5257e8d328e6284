package mediator

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/voidfleet-go/internal/application/logging"
)

// Request is a command or query; its concrete pointer type selects the handler
type Request interface{}

type Response interface{}

type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

type HandlerFunc func(ctx context.Context, request Request) (Response, error)

// Middleware wraps handler execution. It must call next to continue the chain.
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)

// LoggingMiddleware puts a logger tagged with the request name and, when the
// request carries one, its game and ship into the context handlers receive.
// Failures are logged at warn level, everything else at debug.
func LoggingMiddleware(base *logrus.Entry) Middleware {
	return func(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
		fields := logrus.Fields{"request": RequestName(request)}
		for field, key := range scopeFields {
			if v := stringField(request, field); v != "" {
				fields[key] = v
			}
		}
		ctx, logger := logging.WithFields(logging.WithLogger(ctx, base), fields)

		start := time.Now()
		resp, err := next(ctx, request)
		logger = logger.WithField("duration", time.Since(start))
		if err != nil {
			logger.WithError(err).Warn("request failed")
		} else {
			logger.Debug("request handled")
		}
		return resp, err
	}
}

var scopeFields = map[string]string{
	"GameID": "game_id",
	"ShipID": "ship_id",
}

// RequestName is the bare type name of a request, "QueueOrderCommand" for
// a *commands.QueueOrderCommand
func RequestName(request Request) string {
	if request == nil {
		return "unknown"
	}
	name := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	return name[strings.LastIndex(name, ".")+1:]
}

func stringField(request Request, name string) string {
	v := reflect.Indirect(reflect.ValueOf(request))
	if v.Kind() != reflect.Struct {
		return ""
	}
	f := v.FieldByName(name)
	if !f.IsValid() || f.Kind() != reflect.String {
		return ""
	}
	return f.String()
}
