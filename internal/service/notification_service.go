package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/kiosk-service/internal/config"
	"github.com/spec-kit/kiosk-service/internal/events"
)

// NotificationService mirrors guest lifecycle events to the log and to
// the PMS webhook stub. Delivery failures never affect the request
// that produced the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventGuestCheckedIn, n.handleGuestCheckedIn)
	n.dispatcher.Subscribe(events.EventGuestStatusChanged, n.handleGuestStatusChanged)
	n.dispatcher.Subscribe(events.EventGuestDeleted, n.handleGuestDeleted)
	n.dispatcher.Subscribe(events.EventGuestsExported, n.handleGuestsExported)
}

func (n *NotificationService) handleGuestCheckedIn(ctx context.Context, event events.Event) error {
	n.logger.Info("GuestCheckedIn", zap.String("phone", event.Phone), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleGuestStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("GuestStatusChanged", zap.String("phone", event.Phone), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleGuestDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("GuestDeleted", zap.String("phone", event.Phone), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleGuestsExported(ctx context.Context, event events.Event) error {
	n.logger.Info("GuestsExported", zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("phone", event.Phone),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("phone", event.Phone),
		zap.String("event_type", string(event.Type)))
}
