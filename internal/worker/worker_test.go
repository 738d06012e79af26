package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/autosam-rentals/backend/pkg/queue"
)

func TestProcessRejectsUnknownJobType(t *testing.T) {
	p := NewEmailProcessor(nil, nil, nil, nil)
	err := p.Process(context.Background(), &queue.Job{Type: "recording-upload"})
	require.ErrorContains(t, err, "unknown job type")
}

func TestProcessRejectsMalformedPayload(t *testing.T) {
	p := NewEmailProcessor(nil, nil, nil, nil)
	err := p.Process(context.Background(), &queue.Job{Type: queue.JobTypeEmail, Payload: []byte("{")})
	require.ErrorContains(t, err, "unmarshal payload")
}
