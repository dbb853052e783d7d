package kafka

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/germandcf/ProyectoNisum/internal/infra/config"
)

func TestTopicName(t *testing.T) {
	producer := &Producer{cfg: config.KafkaSettings{TopicPrefix: "user"}}
	if got := producer.TopicName("registered"); got != "user.registered" {
		t.Fatalf("unexpected topic name: %s", got)
	}

	bare := &Producer{cfg: config.KafkaSettings{}}
	if got := bare.TopicName("registered"); got != "registered" {
		t.Fatalf("unexpected unprefixed topic name: %s", got)
	}
}

func TestProducerCloseLeavesErrorChannelOpen(t *testing.T) {
	async := newFakeAsyncProducer()
	producer := newProducer(async, config.KafkaSettings{TopicPrefix: "user"}, zaptest.NewLogger(t))

	if err := producer.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	// The error drain may still be mid-send when shutdown begins, so the
	// channel must survive Close; a quiet open channel is the contract.
	select {
	case _, ok := <-producer.Errors():
		if !ok {
			t.Fatalf("errors channel closed on shutdown")
		}
		t.Fatalf("unexpected error after close")
	default:
	}
}
