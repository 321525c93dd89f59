package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coastwatch/coastal-risk-engine/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 2, 10, 6, 30, 0, 0, time.UTC)
	alert := domain.Alert{
		ID:       "alert-1",
		Level:    domain.TierSevere,
		Message:  "Flood risk is severe: 120 mm of rain accumulated over the last 24 hours",
		Area:     "mauritius-coastal",
		Domain:   domain.DomainFloodRisk,
		IssuedAt: now,
	}

	msg, err := serializeToMessage(alert)
	require.NoError(t, err)

	assert.Equal(t, []byte("alert-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"level":"severe"`)
	assert.Contains(t, string(msg.Value), `"domain":"floodRisk"`)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "domain", msg.Headers[0].Key)
	assert.Equal(t, []byte("floodRisk"), msg.Headers[0].Value)
	assert.Equal(t, "level", msg.Headers[1].Key)
	assert.Equal(t, []byte("severe"), msg.Headers[1].Value)
	assert.Equal(t, "issued_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[2].Value)
}

func TestSerializeToMessageRoundTrip(t *testing.T) {
	alert := domain.Alert{
		ID:       "alert-2",
		Level:    domain.TierHigh,
		Message:  "Coral bleaching alert level 3 reached",
		Area:     "mauritius-coastal",
		Domain:   domain.DomainReefBleaching,
		IssuedAt: time.Date(2026, 2, 10, 6, 30, 0, 0, time.UTC),
	}

	msg, err := serializeToMessage(alert)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "alert-2",
		"level": "high",
		"message": "Coral bleaching alert level 3 reached",
		"area": "mauritius-coastal",
		"domain": "reefBleaching",
		"issuedAt": "2026-02-10T06:30:00Z"
	}`, string(msg.Value))
}
