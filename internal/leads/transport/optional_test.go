package transport

import (
	"encoding/json"
	"testing"
	"time"
)

// The update API distinguishes three cases for nullable fields: absent
// (leave alone), null (clear), and a value (set). These tests pin that
// tri-state behavior at the JSON boundary.

func TestUpdateRequestDistinguishesAbsentFromNull(t *testing.T) {
	var absent UpdateLeadRequest
	if err := json.Unmarshal([]byte(`{}`), &absent); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if absent.AssignedTo.Set || absent.FollowUpDate.Set {
		t.Fatal("absent fields must not be marked set")
	}

	var cleared UpdateLeadRequest
	if err := json.Unmarshal([]byte(`{"assignedTo": null, "followUpDate": null}`), &cleared); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !cleared.AssignedTo.Set || cleared.AssignedTo.Value != nil {
		t.Fatalf("null assignedTo must be set with nil value, got %+v", cleared.AssignedTo)
	}
	if !cleared.FollowUpDate.Set || cleared.FollowUpDate.Value != nil {
		t.Fatalf("null followUpDate must be set with nil value, got %+v", cleared.FollowUpDate)
	}
}

func TestOptionalUUIDParsesValueAndRejectsGarbage(t *testing.T) {
	var req UpdateLeadRequest
	if err := json.Unmarshal([]byte(`{"assignedTo": "6f1e9b2a-0f3c-4db0-9a55-8a2df6b6f001"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !req.AssignedTo.Set || req.AssignedTo.Value == nil {
		t.Fatal("expected assignedTo to carry a value")
	}

	if err := json.Unmarshal([]byte(`{"assignedTo": "not-a-uuid"}`), &req); err == nil {
		t.Fatal("expected malformed uuid to be rejected")
	}
}

func TestOptionalTimeAcceptsDateAndTimestamp(t *testing.T) {
	var req UpdateLeadRequest
	if err := json.Unmarshal([]byte(`{"followUpDate": "2026-09-15"}`), &req); err != nil {
		t.Fatalf("unmarshal date: %v", err)
	}
	want := time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local)
	if req.FollowUpDate.Value == nil || !req.FollowUpDate.Value.Equal(want) {
		t.Fatalf("expected local midnight %v, got %v", want, req.FollowUpDate.Value)
	}

	if err := json.Unmarshal([]byte(`{"followUpDate": "2026-09-15T09:30:00Z"}`), &req); err != nil {
		t.Fatalf("unmarshal timestamp: %v", err)
	}
	wantTS := time.Date(2026, 9, 15, 9, 30, 0, 0, time.UTC)
	if req.FollowUpDate.Value == nil || !req.FollowUpDate.Value.Equal(wantTS) {
		t.Fatalf("expected %v, got %v", wantTS, req.FollowUpDate.Value)
	}
}
