package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/andrescamacho/voidfleet-go/internal/application/mediator"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// Outcome labels attached to every dispatched request
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeNotFound = "not_found"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// PrometheusMiddleware times every mediator request and counts it under its
// bare type name ("QueueOrderCommand") and outcome.
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordCommandExecution(mediator.RequestName(request), time.Since(start), outcomeOf(err))

		return response, err
	}
}

// outcomeOf separates player mistakes from engine failures so that alerting
// can watch OutcomeError alone
func outcomeOf(err error) string {
	var claim *shared.TurnClaimError
	var transition *shared.InvalidTransitionError
	var domain *shared.DomainError
	switch {
	case err == nil:
		return OutcomeSuccess
	case shared.IsValidation(err):
		return OutcomeRejected
	case shared.IsNotFound(err):
		return OutcomeNotFound
	case errors.As(err, &claim), errors.As(err, &transition), errors.As(err, &domain):
		return OutcomeConflict
	default:
		return OutcomeError
	}
}
