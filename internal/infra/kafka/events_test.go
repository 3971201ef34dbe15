package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap/zaptest"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/infra/config"
)

type fakeAsyncProducer struct {
	input  chan *sarama.ProducerMessage
	errors chan *sarama.ProducerError
}

func newFakeAsyncProducer() *fakeAsyncProducer {
	return &fakeAsyncProducer{
		input:  make(chan *sarama.ProducerMessage, 1),
		errors: make(chan *sarama.ProducerError, 1),
	}
}

func (f *fakeAsyncProducer) AsyncClose() {}

func (f *fakeAsyncProducer) Close() error { return nil }

func (f *fakeAsyncProducer) Input() chan<- *sarama.ProducerMessage { return f.input }

func (f *fakeAsyncProducer) Successes() <-chan *sarama.ProducerMessage { return nil }

func (f *fakeAsyncProducer) Errors() <-chan *sarama.ProducerError { return f.errors }

func (f *fakeAsyncProducer) IsTransactional() bool { return false }

func (f *fakeAsyncProducer) BeginTxn() error { return nil }

func (f *fakeAsyncProducer) CommitTxn() error { return nil }

func (f *fakeAsyncProducer) AbortTxn() error { return nil }

func (f *fakeAsyncProducer) AddOffsetsToTxn(offsets map[string][]*sarama.PartitionOffsetMetadata, groupID string) error {
	return nil
}

func (f *fakeAsyncProducer) AddMessageToTxn(msg *sarama.ConsumerMessage, groupID string, metadata *string) error {
	return nil
}

func (f *fakeAsyncProducer) TxnStatus() sarama.ProducerTxnStatusFlag {
	return sarama.ProducerTxnStatusFlag(0)
}

func newTestPublisher(t *testing.T) (*EventPublisher, *fakeAsyncProducer) {
	t.Helper()

	asyncProducer := newFakeAsyncProducer()

	producer := &Producer{
		producer: asyncProducer,
		logger:   zaptest.NewLogger(t),
		cfg: config.KafkaSettings{
			TopicPrefix: "accounts",
		},
		errChan: make(chan error, 1),
		done:    make(chan struct{}),
	}

	publisher := NewEventPublisher(producer, config.AppSettings{
		Name: "accounts-service",
		Env:  "test",
	}, zaptest.NewLogger(t))

	return publisher, asyncProducer
}

func TestPublishUserRegistered(t *testing.T) {
	publisher, asyncProducer := newTestPublisher(t)

	registeredAt := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)
	event := domain.UserRegisteredEvent{
		EventID:      "event-1",
		UserID:       "user-1",
		Email:        "alice@example.com",
		Name:         "Alice",
		Role:         "user",
		RegisteredAt: registeredAt,
	}

	if err := publisher.PublishUserRegistered(context.Background(), event); err != nil {
		t.Fatalf("PublishUserRegistered returned error: %v", err)
	}

	msg := <-asyncProducer.input
	if msg.Topic != "accounts.user.registered" {
		t.Fatalf("unexpected topic %s", msg.Topic)
	}

	raw, err := msg.Value.Encode()
	if err != nil {
		t.Fatalf("encode message value: %v", err)
	}

	var envelope struct {
		EventID   string            `json:"event_id"`
		EventType string            `json:"event_type"`
		UserID    string            `json:"user_id"`
		Version   string            `json:"version"`
		Metadata  map[string]string `json:"metadata"`
		Payload   struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}

	if envelope.EventID != "event-1" {
		t.Fatalf("expected event-1, got %s", envelope.EventID)
	}
	if envelope.EventType != "accounts.user.registered" {
		t.Fatalf("unexpected event type %s", envelope.EventType)
	}
	if envelope.UserID != "user-1" {
		t.Fatalf("unexpected user id %s", envelope.UserID)
	}
	if envelope.Version != schemaVersion {
		t.Fatalf("unexpected schema version %s", envelope.Version)
	}
	if envelope.Metadata["service"] != "accounts-service" {
		t.Fatalf("expected service metadata, got %v", envelope.Metadata)
	}
	if envelope.Payload.Email != "alice@example.com" || envelope.Payload.Name != "Alice" {
		t.Fatalf("unexpected payload %+v", envelope.Payload)
	}
}

func TestPublishPasswordResetRequestedOmitsToken(t *testing.T) {
	publisher, asyncProducer := newTestPublisher(t)

	requestedAt := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)
	event := domain.PasswordResetRequestedEvent{
		EventID:     "event-2",
		UserID:      "user-2",
		MaskedEmail: "bob***@example.com",
		RequestedAt: requestedAt,
		ExpiresAt:   requestedAt.Add(time.Hour),
	}

	if err := publisher.PublishPasswordResetRequested(context.Background(), event); err != nil {
		t.Fatalf("PublishPasswordResetRequested returned error: %v", err)
	}

	msg := <-asyncProducer.input
	if msg.Topic != "accounts.password.reset_requested" {
		t.Fatalf("unexpected topic %s", msg.Topic)
	}

	raw, err := msg.Value.Encode()
	if err != nil {
		t.Fatalf("encode message value: %v", err)
	}

	var envelope map[string]any
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}

	payload, ok := envelope["payload"].(map[string]any)
	if !ok {
		t.Fatalf("expected payload object, got %T", envelope["payload"])
	}
	if _, found := payload["token"]; found {
		t.Fatalf("reset token must never appear in the event payload")
	}
	if payload["masked_email"] != "bob***@example.com" {
		t.Fatalf("unexpected masked email %v", payload["masked_email"])
	}
}

func TestPublishAccountLocked(t *testing.T) {
	publisher, asyncProducer := newTestPublisher(t)

	lockedAt := time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)
	event := domain.AccountLockedEvent{
		EventID:        "event-3",
		AccountKey:     "carol@example.com",
		FailedAttempts: 5,
		LockedAt:       lockedAt,
	}

	if err := publisher.PublishAccountLocked(context.Background(), event); err != nil {
		t.Fatalf("PublishAccountLocked returned error: %v", err)
	}

	msg := <-asyncProducer.input
	if msg.Topic != "accounts.lockout.tripped" {
		t.Fatalf("unexpected topic %s", msg.Topic)
	}
}

func TestPublishRespectsContextCancellation(t *testing.T) {
	publisher, asyncProducer := newTestPublisher(t)

	// Fill the input buffer so the next publish blocks.
	asyncProducer.input <- &sarama.ProducerMessage{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := publisher.PublishPasswordChanged(ctx, domain.PasswordChangedEvent{
		EventID:   "event-4",
		UserID:    "user-4",
		ChangedAt: time.Now().UTC(),
		Reason:    "reset",
	})
	if err == nil {
		t.Fatalf("expected context error when producer input is full")
	}
}
