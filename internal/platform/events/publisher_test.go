package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/healthd/healthd/internal/domain/assessment"
	"github.com/healthd/healthd/internal/domain/engine"
)

// The wire payload is the record's JSON form; consumers depend on the
// field names staying stable.
func TestEventEncoding(t *testing.T) {
	rec := &assessment.Record{
		ID:        uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		UserID:    uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		Datetime:  "2024-06-15 10:30",
		Gender:    engine.Male,
		Age:       30,
		Height:    170,
		Weight:    60,
		BMI:       20.76,
		Status:    "normal-weight",
		Color:     "🟢",
		BGColor:   "#e8f5e9",
		Advice:    "keep it up",
		CreatedAt: time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC),
	}

	body, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, key := range []string{
		"id", "user_id", "datetime", "gender", "age",
		"height", "weight", "bmi", "status", "color", "bg_color", "advice",
	} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("event payload missing field %q", key)
		}
	}
	if _, ok := decoded["CreatedAt"]; ok {
		t.Error("internal ordering timestamp must not leak into the payload")
	}
	if decoded["status"] != "normal-weight" || decoded["datetime"] != "2024-06-15 10:30" {
		t.Errorf("unexpected payload values: %v", decoded)
	}
}

// A dead broker must not wedge shutdown: each event gets a bounded number
// of attempts, every failed session is torn down in full, and Close
// returns once the mailbox is drained.
func TestCloseWithUnreachableBroker(t *testing.T) {
	p := newPublisher("amqp://127.0.0.1:1", "assessments.completed", zerolog.Nop(), time.Millisecond)

	rec := &assessment.Record{ID: uuid.New(), UserID: uuid.New()}
	if err := p.PublishAssessmentCompleted(context.Background(), rec); err != nil {
		t.Fatalf("enqueue should succeed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		p.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return with an unreachable broker")
	}

	if err := p.PublishAssessmentCompleted(context.Background(), rec); err != ErrClosed {
		t.Errorf("expected ErrClosed after Close, got %v", err)
	}
}
