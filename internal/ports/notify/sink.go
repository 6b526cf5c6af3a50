package notify

import "context"

// Message es lo mínimo que entiende cualquier sink.
type Message struct {
	Topic     string            `json:"topic"`
	Recipient string            `json:"recipient"`
	Subject   string            `json:"subject"`
	Body      string            `json:"body"`
	Meta      map[string]string `json:"meta,omitempty"`
}

//go:generate mockgen -source=sink.go -destination=sink_mock.go -package=notify

// Sink intenta entregar el mensaje; el caller no revierte nada si falla.
type Sink interface {
	Send(ctx context.Context, msg Message) error
}
