package logsink

import (
	"context"
	"testing"

	"adopta-api/internal/platform/logger"
	"adopta-api/internal/ports/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSend_Logs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := logger.WithContext(context.Background(), zap.New(core))

	err := New().Send(ctx, notify.Message{Topic: "petition.completed", Recipient: "u-1"})
	require.NoError(t, err)

	entries := logs.FilterMessage("notification").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "petition.completed", entries[0].ContextMap()["topic"])
	assert.Equal(t, "u-1", entries[0].ContextMap()["recipient"])
}
