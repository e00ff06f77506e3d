package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDate_JSON(t *testing.T) {
	var v struct {
		D Date `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"d":"2025-01-13"}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.D.String() != "2025-01-13" {
		t.Errorf("date = %q", v.D.String())
	}
	out, _ := json.Marshal(v)
	if string(out) != `{"d":"2025-01-13"}` {
		t.Errorf("marshal = %s", out)
	}

	if err := json.Unmarshal([]byte(`{"d":null}`), &v); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !v.D.IsZero() {
		t.Error("null should be zero date")
	}
	out, _ = json.Marshal(v)
	if string(out) != `{"d":null}` {
		t.Errorf("marshal zero = %s", out)
	}

	if err := json.Unmarshal([]byte(`{"d":"13-01-2025"}`), &v); err == nil {
		t.Error("expected error for bad layout")
	}
}

func TestDate_Scan(t *testing.T) {
	var d Date
	if err := d.Scan("2024-02-29"); err != nil || d.String() != "2024-02-29" {
		t.Errorf("scan string: %v %q", err, d)
	}
	if err := d.Scan([]byte("2024-03-01")); err != nil || d.String() != "2024-03-01" {
		t.Errorf("scan bytes: %v %q", err, d)
	}
	if err := d.Scan(time.Date(2024, 3, 2, 15, 4, 0, 0, time.UTC)); err != nil || d.String() != "2024-03-02" {
		t.Errorf("scan time: %v %q", err, d)
	}
	if err := d.Scan(nil); err != nil || !d.IsZero() {
		t.Errorf("scan nil: %v %q", err, d)
	}
	if err := d.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}

	v, _ := Date{}.Value()
	if v != nil {
		t.Errorf("zero value = %v, want nil", v)
	}
}
