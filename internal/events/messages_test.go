package events

import (
	"testing"
	"time"
)

func TestEntityChangeJSON(t *testing.T) {
	msg := NewEntityChange(EntityProfile, ActionCreated, 42, "Main")
	if msg.Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := EntityChangeFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Entity != EntityProfile || decoded.Action != ActionCreated || decoded.ID != 42 || decoded.Name != "Main" {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
	if !decoded.Timestamp.Truncate(time.Second).Equal(msg.Timestamp.Truncate(time.Second)) {
		t.Fatalf("timestamp mismatch: %v vs %v", decoded.Timestamp, msg.Timestamp)
	}
}

func TestEntityChangeFromJSONRejectsGarbage(t *testing.T) {
	if _, err := EntityChangeFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error")
	}
}
