package postgres

import (
	"errors"
	"testing"
	"time"
)

func TestNewStoreValidation(t *testing.T) {
	if _, err := NewStore(nil); !errors.Is(err, ErrDBRequired) {
		t.Fatalf("expected ErrDBRequired, got %v", err)
	}
}

func TestNullString(t *testing.T) {
	if nullString("").Valid {
		t.Fatalf("empty string must map to NULL")
	}
	got := nullString("boom")
	if !got.Valid || got.String != "boom" {
		t.Fatalf("expected valid boom, got %+v", got)
	}
}

func TestNullTime(t *testing.T) {
	if nullTime(nil).Valid {
		t.Fatalf("nil time must map to NULL")
	}
	now := time.Now()
	got := nullTime(&now)
	if !got.Valid || !got.Time.Equal(now) {
		t.Fatalf("expected valid time, got %+v", got)
	}
}
