// Package notify pushes market events to operator channels. Events are
// dispatched to all registered senders and can be filtered by event type so
// operators receive only the alerts they care about.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/teamfortytwo/atlas/internal/domain"
)

// Sender is the interface each notification channel must implement.
type Sender interface {
	// Send delivers a notification with the given title and message body.
	Send(ctx context.Context, title, message string) error
	// Name returns a human-readable identifier for the sender.
	Name() string
}

// Notifier dispatches market events to one or more Senders, filtered by an
// allowed set of event types. An empty set allows everything.
type Notifier struct {
	senders []Sender
	events  map[domain.EventType]bool
	logger  *slog.Logger
}

// NewNotifier creates a Notifier delivering to the given senders. Only events
// whose type appears in events are forwarded; an empty slice allows all.
func NewNotifier(senders []Sender, events []domain.EventType, logger *slog.Logger) *Notifier {
	allowed := make(map[domain.EventType]bool, len(events))
	for _, e := range events {
		allowed[e] = true
	}
	return &Notifier{
		senders: senders,
		events:  allowed,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// HandleEvent formats and dispatches one market event. Unknown or filtered
// event types are silently dropped.
func (n *Notifier) HandleEvent(ctx context.Context, ev domain.Event) error {
	if len(n.events) > 0 && !n.events[ev.Type] {
		return nil
	}

	title, message, ok := formatEvent(ev)
	if !ok {
		return nil
	}
	return n.dispatch(ctx, title, message)
}

// formatEvent renders an event into a title and body. The second value is
// false for event types with nothing worth alerting on.
func formatEvent(ev domain.Event) (string, string, bool) {
	switch ev.Type {
	case domain.EventTradeExecuted:
		tx, ok := ev.Payload.(domain.Transaction)
		if !ok {
			return "", "", false
		}
		kind := "validator"
		if tx.Sell.Kind == domain.SellKindBundle {
			kind = fmt.Sprintf("bundle of %d validators", len(tx.Sell.Listings))
		}
		return "Trade executed",
			fmt.Sprintf("%s sold for %.2f ETH at %.2f%% yield\nbuyer %s, seller %s",
				kind, tx.Price, tx.YieldRatio, tx.Buy.Address, tx.Sell.Address),
			true
	case domain.EventHistoryReset:
		return "Trade history reset", "the transaction ledger was cleared by an operator", true
	default:
		return "", "", false
	}
}

// dispatch delivers to every sender; one failing sender does not stop
// delivery to the rest.
func (n *Notifier) dispatch(ctx context.Context, title, message string) error {
	if len(n.senders) == 0 {
		return nil
	}

	var errs []string
	for _, s := range n.senders {
		if err := s.Send(ctx, title, message); err != nil {
			n.logger.ErrorContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}
