package kafka

import (
	"testing"

	"service-catalog/config"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAcks(t *testing.T) {
	tests := map[string]kafkago.RequiredAcks{
		"all": kafkago.RequireAll,
		"ALL": kafkago.RequireAll,
		"-1":  kafkago.RequireAll,
		"":    kafkago.RequireAll,
		"1":   kafkago.RequireOne,
		"0":   kafkago.RequireNone,
	}
	for in, want := range tests {
		got, err := ParseAcks(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseAcks("2")
	assert.Error(t, err)
}

func TestParseOffsetReset(t *testing.T) {
	r, err := ParseOffsetReset("Earliest")
	require.NoError(t, err)
	assert.Equal(t, OffsetResetEarliest, r)
	assert.Equal(t, kafkago.FirstOffset, r.StartOffset())

	r, err = ParseOffsetReset("latest")
	require.NoError(t, err)
	assert.Equal(t, kafkago.LastOffset, r.StartOffset())

	r, err = ParseOffsetReset("error")
	require.NoError(t, err)
	assert.Equal(t, OffsetResetError, r)

	_, err = ParseOffsetReset("sometimes")
	assert.Error(t, err)
}

func TestNewSecurity(t *testing.T) {
	sec, err := newSecurity(config.KafkaConfig{SecurityProtocol: "PLAINTEXT"})
	require.NoError(t, err)
	assert.Nil(t, sec.tls)
	assert.Nil(t, sec.sasl)

	sec, err = newSecurity(config.KafkaConfig{SecurityProtocol: "SASL_SSL", SASLMechanism: "PLAIN", SASLUsername: "u", SASLPassword: "p"})
	require.NoError(t, err)
	assert.NotNil(t, sec.tls)
	assert.Equal(t, plain.Mechanism{Username: "u", Password: "p"}, sec.sasl)

	sec, err = newSecurity(config.KafkaConfig{SecurityProtocol: "SASL_PLAINTEXT", SASLMechanism: "SCRAM-SHA-512", SASLUsername: "u", SASLPassword: "p"})
	require.NoError(t, err)
	assert.Nil(t, sec.tls)
	assert.Equal(t, "SCRAM-SHA-512", sec.sasl.Name())

	_, err = newSecurity(config.KafkaConfig{SecurityProtocol: "QUIC"})
	assert.Error(t, err)
}
