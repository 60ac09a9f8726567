package maapi

import (
	"encoding/json"
	"testing"
)

func TestResponseIDNumeric(t *testing.T) {
	var msg ServerMessage
	if err := json.Unmarshal([]byte(`{"message_id": 42, "result": []}`), &msg); err != nil {
		t.Fatal(err)
	}
	id, ok := msg.ResponseID()
	if !ok || id != 42 {
		t.Errorf("ResponseID = %d, %v, want 42, true", id, ok)
	}
}

func TestResponseIDString(t *testing.T) {
	var msg ServerMessage
	if err := json.Unmarshal([]byte(`{"message_id": "42"}`), &msg); err != nil {
		t.Fatal(err)
	}
	id, ok := msg.ResponseID()
	if !ok || id != 42 {
		t.Errorf("ResponseID = %d, %v, want 42, true", id, ok)
	}
}

func TestResponseIDMissing(t *testing.T) {
	var msg ServerMessage
	if err := json.Unmarshal([]byte(`{"event": "player_updated", "data": {}}`), &msg); err != nil {
		t.Fatal(err)
	}
	if _, ok := msg.ResponseID(); ok {
		t.Error("ResponseID should not parse on event frames")
	}
	if !msg.IsEvent() {
		t.Error("IsEvent = false, want true")
	}
}

func TestResponseIDGarbage(t *testing.T) {
	var msg ServerMessage
	if err := json.Unmarshal([]byte(`{"message_id": "abc"}`), &msg); err != nil {
		t.Fatal(err)
	}
	if _, ok := msg.ResponseID(); ok {
		t.Error("ResponseID should reject non-numeric ids")
	}
}
