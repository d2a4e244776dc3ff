package mailer

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

type breakerSender struct {
	next Sender
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker wraps next in a circuit breaker that opens after repeated
// delivery failures and fails fast until the provider recovers.
func WithBreaker(next Sender, log *logrus.Logger) Sender {
	st := gobreaker.Settings{
		Name:        "EmailCircuitBreaker",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warnf("%s state changed from %s to %s", name, from, to)
		},
	}
	return &breakerSender{next: next, cb: gobreaker.NewCircuitBreaker(st)}
}

func (b *breakerSender) Send(ctx context.Context, msg Message) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Send(ctx, msg)
	})
	return err
}
