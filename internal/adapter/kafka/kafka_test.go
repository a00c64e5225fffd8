package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/farm-advisor-service/internal/config"
	"github.com/couchcryptid/farm-advisor-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	yield := 1.905
	event := domain.AdvisoryEvent{
		ID: "adv-1",
		Advice: domain.Advice{
			City:             "Nashik,IN",
			Soil:             domain.SoilSample{MoisturePct: 50, PH: 6.8},
			WeatherAvailable: true,
			Weather:          &domain.WeatherReading{TemperatureC: 28, HumidityPct: 65},
			YieldTonsPerAcre: &yield,
			Crops:            []string{"Sugarcane", "Corn", "Sunflower"},
			GeneratedAt:      now,
		},
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("adv-1"), msg.Key)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "city", msg.Headers[0].Key)
	assert.Equal(t, []byte("Nashik,IN"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "adv-1", decoded["id"])
	assert.Equal(t, "Nashik,IN", decoded["city"])
	assert.Equal(t, 1.905, decoded["yield_tons_per_acre"])
	assert.Equal(t, []any{"Sugarcane", "Corn", "Sunflower"}, decoded["crops"])
}

func TestNewWriter_UsesConfiguredTopic(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "farm-advisories"}

	w := NewWriter(cfg, nil)
	defer w.Close()

	assert.Equal(t, "farm-advisories", w.writer.Topic)
}
