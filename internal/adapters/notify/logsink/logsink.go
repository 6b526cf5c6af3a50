// Package logsink es el notify.Sink por defecto: solo deja el mensaje en el log.
package logsink

import (
	"context"

	"adopta-api/internal/platform/logger"
	"adopta-api/internal/ports/notify"

	"go.uber.org/zap"
)

type Sink struct{}

var _ notify.Sink = Sink{}

func New() Sink { return Sink{} }

func (Sink) Send(ctx context.Context, msg notify.Message) error {
	logger.FromContext(ctx).Info("notification",
		zap.String("topic", msg.Topic),
		zap.String("recipient", msg.Recipient),
		zap.String("subject", msg.Subject),
		zap.Any("meta", msg.Meta),
	)
	return nil
}
