package db

import (
	"errors"
	"testing"
	"time"

	"orders-bot/internal/order/app/core"
)

func TestBuildOrderBy(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "created_at DESC"},
		{"created_at", "created_at ASC"},
		{"-created_at", "created_at DESC"},
		{"createdAt", "created_at ASC"},
		{"-updated_at", "updated_at DESC"},
		{"total_amount", "total_amount ASC"},
		{"-totalAmount", "total_amount DESC"},
		{"status", "status ASC"},
		{"scheduledDate", "scheduled_date ASC"},
		{"-customer_name", "customer_name DESC"},
	}
	for _, tc := range cases {
		got, err := buildOrderBy(tc.in)
		if err != nil {
			t.Errorf("buildOrderBy(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("buildOrderBy(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildOrderBy_InvalidKey(t *testing.T) {
	for _, bad := range []string{
		"id",
		"unknown",
		"-unknown",
		"created_at; DROP TABLE orders",
		"--created_at",
	} {
		if _, err := buildOrderBy(bad); !errors.Is(err, core.ErrInvalidSort) {
			t.Errorf("buildOrderBy(%q): expected ErrInvalidSort, got %v", bad, err)
		}
	}
}

func TestEndOfDay(t *testing.T) {
	in := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	got := endOfDay(in)

	want := time.Date(2024, 1, 31, 23, 59, 59, 999_000_000, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("endOfDay(%v) = %v, want %v", in, got, want)
	}

	// Anything on the same day falls inside the range, the next day's
	// first instant falls outside.
	sameDay := time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC)
	if sameDay.After(got) {
		t.Error("late same-day timestamp should not exceed end of day")
	}
	nextDay := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if !nextDay.After(got) {
		t.Error("next day's first instant should exceed end of day")
	}

	// Local zones are preserved.
	loc := time.FixedZone("ART", -3*60*60)
	local := endOfDay(time.Date(2024, 6, 15, 12, 0, 0, 0, loc))
	if local.Location() != loc {
		t.Errorf("expected location preserved, got %v", local.Location())
	}
}
