// Package notify fans match notifications out to the user: the server log,
// the live feed and any configured chat webhooks.
//
// Notifier is the synchronous port the session calls while holding its
// lock, so implementations must not block. Slow deliveries go through
// QueueNotifier and the mq workers, which drive the Sender types below.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/containrrr/shoutrrr"

	"github.com/okian/touchline/internal/adapters/mq/queue"
	"github.com/okian/touchline/internal/domain/model"
	"github.com/okian/touchline/internal/domain/types"
	"github.com/okian/touchline/pkg/logger"
	"github.com/okian/touchline/pkg/metrics"
)

// Notifier receives every notification the session raises.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n model.Notification)

func (f NotifierFunc) Notify(ctx context.Context, n model.Notification) { f(ctx, n) }

// Multi calls each notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n model.Notification) {
	for _, x := range m {
		if x != nil {
			x.Notify(ctx, n)
		}
	}
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	log logger.Logger
}

// NewLogNotifier logs through l.
func NewLogNotifier(l logger.Logger) *LogNotifier {
	return &LogNotifier{log: l}
}

func (n *LogNotifier) Notify(ctx context.Context, note model.Notification) {
	fields := []logger.Field{
		logger.String("id", note.ID),
		logger.String("severity", string(note.Severity)),
	}
	switch note.Severity {
	case model.Danger, model.Warning:
		n.log.Warn(ctx, note.Message, fields...)
	default:
		n.log.Info(ctx, note.Message, fields...)
	}
	metrics.RecordNotificationDispatched("log")
}

// QueueNotifier hands notifications to a queue. A full or closed queue
// drops the notification with a warning.
type QueueNotifier struct {
	q   queue.Queue
	log logger.Logger
}

// NewQueueNotifier enqueues onto q.
func NewQueueNotifier(q queue.Queue, l logger.Logger) *QueueNotifier {
	return &QueueNotifier{q: q, log: l}
}

func (n *QueueNotifier) Notify(ctx context.Context, note model.Notification) {
	if err := n.q.Enqueue(ctx, note); err != nil {
		n.log.Warn(ctx, "notification dropped",
			logger.String("id", note.ID),
			logger.String("message", note.Message),
			logger.Error(err),
		)
	}
}

// Broadcaster pushes a message to every live feed client.
type Broadcaster interface {
	Broadcast(msg types.FeedMessage)
}

// HubSender delivers notifications to the live feed as toasts.
type HubSender struct {
	hub Broadcaster
}

// NewHubSender broadcasts through hub.
func NewHubSender(hub Broadcaster) *HubSender {
	return &HubSender{hub: hub}
}

func (s *HubSender) Name() string { return "feed" }

func (s *HubSender) Send(_ context.Context, n model.Notification) error {
	s.hub.Broadcast(types.FeedMessage{Type: types.FeedNotification, Data: n})
	return nil
}

// SendFunc delivers message to one shoutrrr service URL.
type SendFunc func(url, message string) error

// ShoutrrrSender posts notification text to shoutrrr service URLs
// (Discord, Slack, Telegram, ntfy and the rest).
type ShoutrrrSender struct {
	urls []string
	send SendFunc
}

// NewShoutrrrSender sends to every url.
func NewShoutrrrSender(urls []string) *ShoutrrrSender {
	return &ShoutrrrSender{urls: urls, send: shoutrrr.Send}
}

// WithSendFunc replaces the transport, for tests.
func (s *ShoutrrrSender) WithSendFunc(f SendFunc) *ShoutrrrSender {
	s.send = f
	return s
}

func (s *ShoutrrrSender) Name() string { return "shoutrrr" }

// Send tries every URL and joins the failures.
func (s *ShoutrrrSender) Send(ctx context.Context, n model.Notification) error {
	var errs []error
	for i, u := range s.urls {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := s.send(u, n.Message); err != nil {
			errs = append(errs, fmt.Errorf("service %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
