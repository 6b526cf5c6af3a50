// Package webhook entrega notificaciones como POST JSON a un endpoint externo
// (gateway de email/push).
package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"adopta-api/internal/platform/httpclient"
	"adopta-api/internal/ports/notify"
)

const HeaderTopic = "X-Adopta-Topic"

type Sink struct {
	http *httpclient.Client
}

var _ notify.Sink = (*Sink)(nil)

func New(url string, timeout time.Duration) (*Sink, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("webhook url required")
	}
	hc, err := httpclient.New(url, httpclient.WithName("webhook"), httpclient.WithTimeout(timeout))
	if err != nil {
		return nil, err
	}
	return &Sink{http: hc}, nil
}

func (s *Sink) Send(ctx context.Context, msg notify.Message) error {
	err := s.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Header: map[string]string{HeaderTopic: msg.Topic},
		Body:   msg,
	})
	if err != nil {
		return fmt.Errorf("webhook %s: %w", msg.Topic, err)
	}
	return nil
}
