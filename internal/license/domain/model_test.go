package domain

import (
	"testing"
	"time"
)

func TestIsExpired(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	var lic License
	if lic.IsExpired(now) {
		t.Fatal("license without expiry must never expire")
	}

	future := now.AddDate(0, 0, 1)
	lic.DateExpires = &future
	if lic.IsExpired(now) {
		t.Fatal("future expiry must not be expired")
	}

	past := now.AddDate(0, 0, -1)
	lic.DateExpires = &past
	if !lic.IsExpired(now) {
		t.Fatal("past expiry must be expired")
	}
}

func TestMidnight(t *testing.T) {
	got := Midnight(time.Date(2025, time.March, 10, 23, 59, 59, 0, time.UTC))
	want := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
