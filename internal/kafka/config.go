package kafka

import (
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"service-catalog/config"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// OffsetReset is the policy applied when the consumer group has no committed
// offset for a partition.
type OffsetReset string

const (
	OffsetResetEarliest OffsetReset = "earliest"
	OffsetResetLatest   OffsetReset = "latest"
	OffsetResetError    OffsetReset = "error"
)

// ParseAcks maps the acks setting to the writer's required acks.
func ParseAcks(value string) (kafkago.RequiredAcks, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all", "-1":
		return kafkago.RequireAll, nil
	case "1", "leader":
		return kafkago.RequireOne, nil
	case "0", "none":
		return kafkago.RequireNone, nil
	default:
		return 0, fmt.Errorf("invalid kafka acks %q", value)
	}
}

func ParseOffsetReset(value string) (OffsetReset, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "earliest", "smallest", "beginning":
		return OffsetResetEarliest, nil
	case "latest", "largest", "end":
		return OffsetResetLatest, nil
	case "error", "none":
		return OffsetResetError, nil
	default:
		return "", fmt.Errorf("invalid kafka auto offset reset %q", value)
	}
}

// StartOffset is the reader start offset for a policy. The error policy is
// enforced before the reader is built, so it starts from the beginning.
func (r OffsetReset) StartOffset() int64 {
	if r == OffsetResetLatest {
		return kafkago.LastOffset
	}
	return kafkago.FirstOffset
}

type security struct {
	tls  *tls.Config
	sasl sasl.Mechanism
}

func newSecurity(cfg config.KafkaConfig) (security, error) {
	var sec security
	protocol := strings.ToUpper(strings.TrimSpace(cfg.SecurityProtocol))
	switch protocol {
	case "", "PLAINTEXT":
		return sec, nil
	case "SSL":
		sec.tls = &tls.Config{MinVersion: tls.VersionTLS12}
		return sec, nil
	case "SASL_SSL":
		sec.tls = &tls.Config{MinVersion: tls.VersionTLS12}
	case "SASL_PLAINTEXT":
	default:
		return sec, fmt.Errorf("unsupported kafka security protocol %q", cfg.SecurityProtocol)
	}

	switch strings.ToUpper(strings.TrimSpace(cfg.SASLMechanism)) {
	case "", "PLAIN":
		sec.sasl = plain.Mechanism{Username: cfg.SASLUsername, Password: cfg.SASLPassword}
	case "SCRAM-SHA-256":
		m, err := scram.Mechanism(scram.SHA256, cfg.SASLUsername, cfg.SASLPassword)
		if err != nil {
			return sec, fmt.Errorf("scram-sha-256: %w", err)
		}
		sec.sasl = m
	case "SCRAM-SHA-512":
		m, err := scram.Mechanism(scram.SHA512, cfg.SASLUsername, cfg.SASLPassword)
		if err != nil {
			return sec, fmt.Errorf("scram-sha-512: %w", err)
		}
		sec.sasl = m
	default:
		return sec, fmt.Errorf("unsupported kafka sasl mechanism %q", cfg.SASLMechanism)
	}
	return sec, nil
}

func newTransport(cfg config.KafkaConfig, sec security) *kafkago.Transport {
	return &kafkago.Transport{
		ClientID:    cfg.ClientID,
		TLS:         sec.tls,
		SASL:        sec.sasl,
		DialTimeout: cfg.RequestTimeout,
		MetadataTTL: time.Minute,
	}
}

func newDialer(cfg config.KafkaConfig, sec security) *kafkago.Dialer {
	return &kafkago.Dialer{
		ClientID:      cfg.ClientID,
		Timeout:       cfg.RequestTimeout,
		DualStack:     true,
		TLS:           sec.tls,
		SASLMechanism: sec.sasl,
	}
}
