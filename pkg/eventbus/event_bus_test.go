package eventbus

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/planora/planora/pkg/logging"
)

type assignmentCreated struct {
	personID string
}

func TestPublisher_Publish_NoSubscribers(t *testing.T) {
	type unrelated struct{}

	logBuffer := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&logBuffer)
	log.SetLevel(logrus.WarnLevel)

	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *assignmentCreated) {
		t.Error("should not be called")
	})
	publisher.Publish(&unrelated{})

	if output := logBuffer.String(); output == "" {
		t.Error("should have logged")
	} else if !strings.Contains(output, "eventbus.Publish: no matching subscribers") {
		t.Errorf("should have contained no matching subscribers but got: %q", output)
	}
}

func TestPublisher_Subscribe(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.WarnLevel))
	called := false
	var personID string
	publisher.Subscribe(func(e *assignmentCreated) {
		called = true
		personID = e.personID
	})
	publisher.Publish(&assignmentCreated{personID: "p-1"})
	if !called {
		t.Error("should be called")
	}
	if personID != "p-1" {
		t.Errorf("expected: %v, got: %v", "p-1", personID)
	}
}

func TestPublisher_Unsubscribe(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.PanicLevel))
	handler := func(e *assignmentCreated) {}
	publisher.Subscribe(handler)
	if publisher.SubscribersCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", publisher.SubscribersCount())
	}
	publisher.Unsubscribe(handler)
	if publisher.SubscribersCount() != 0 {
		t.Fatalf("expected 0 subscribers, got %d", publisher.SubscribersCount())
	}
}

func TestMatchSignature(t *testing.T) {
	type a struct{}
	type b struct{}
	if !MatchSignature(func(e *a) {}, []interface{}{&a{}}) {
		t.Error("expected true")
	}
	if MatchSignature(func(e *a) {}, []interface{}{&b{}}) {
		t.Error("expected false")
	}
	if MatchSignature(func(e *a) {}, []interface{}{}) {
		t.Error("expected false")
	}
	if MatchSignature(func(e *a) {}, []interface{}{&a{}, &a{}}) {
		t.Error("expected false")
	}
	if !MatchSignature(func(ctx context.Context) {}, []interface{}{context.Background()}) {
		t.Error("expected true")
	}
}

func TestPublisher_PanicRecovery(t *testing.T) {
	logBuffer := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&logBuffer)

	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *assignmentCreated) {
		panic("handler exploded")
	})
	publisher.Publish(&assignmentCreated{})

	if !strings.Contains(logBuffer.String(), "panicked") {
		t.Errorf("expected panic to be logged, got: %q", logBuffer.String())
	}
}
