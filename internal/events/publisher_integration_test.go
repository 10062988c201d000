//go:build integration

package events

import (
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
)

func skipWithoutNATS(t *testing.T) string {
	t.Helper()
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set, skipping integration test")
	}
	return url
}

func TestIntegration_PublishChatIngested(t *testing.T) {
	natsURL := skipWithoutNATS(t)

	pub, err := NewPublisher(natsURL, os.Getenv("NATS_TOKEN"), slog.Default())
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer pub.Close()

	nc, err := nats.Connect(natsURL)
	if err != nil {
		t.Fatalf("subscriber connect failed: %v", err)
	}
	defer nc.Close()

	received := make(chan ChatIngested, 1)
	sub, err := nc.Subscribe(SubjectChatIngested, func(msg *nats.Msg) {
		var evt ChatIngested
		if err := json.Unmarshal(msg.Data, &evt); err == nil {
			received <- evt
		}
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer sub.Unsubscribe()

	// Give subscription time to propagate
	time.Sleep(100 * time.Millisecond)

	if err := pub.PublishChatIngested("family_group", 42, 3); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case evt := <-received:
		if evt.ChatID != "family_group" {
			t.Errorf("chat_id = %q, want family_group", evt.ChatID)
		}
		if evt.MessageCount != 42 || evt.ParticipantCount != 3 {
			t.Errorf("counts = %d/%d, want 42/3", evt.MessageCount, evt.ParticipantCount)
		}
		if evt.EventID == "" {
			t.Error("event_id must be set")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}
