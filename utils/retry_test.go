package utils

import (
	"errors"
	"testing"
	"time"
)

func TestDoWithRecoveryExhaustsAttempts(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: NewLogger()}
	sentinel := errors.New("calendar never rendered")

	var events []string
	err := r.DoWithRecovery("readiness", func() error {
		events = append(events, "attempt")
		return sentinel
	}, func() {
		events = append(events, "reset")
	})

	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("terminal error does not wrap the last attempt error: %v", err)
	}

	// Resets happen strictly between attempts, never after the last one.
	want := []string{"attempt", "reset", "attempt", "reset", "attempt"}
	if len(events) != len(want) {
		t.Fatalf("events = %v; want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v; want %v", events, want)
		}
	}
}

func TestDoWithRecoverySucceedsMidway(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: NewLogger()}

	attempts, resets := 0, 0
	err := r.DoWithRecovery("readiness", func() error {
		attempts++
		if attempts < 2 {
			return errors.New("not yet")
		}
		return nil
	}, func() {
		resets++
	})

	if err != nil {
		t.Fatalf("DoWithRecovery: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d; want 2 (stop on first success)", attempts)
	}
	if resets != 1 {
		t.Errorf("resets = %d; want 1", resets)
	}
}

func TestDoWithRecoveryUsesFixedDelay(t *testing.T) {
	base := 50 * time.Millisecond
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: base, Logger: NewLogger()}

	start := time.Now()
	_ = r.DoWithRecovery("readiness", func() error {
		return errors.New("still broken")
	}, func() {})
	elapsed := time.Since(start)

	// Two sleeps of base each; a doubling back-off would need 3x base.
	if elapsed < 2*base {
		t.Errorf("elapsed %v; want at least %v (two fixed delays)", elapsed, 2*base)
	}
	if elapsed >= 3*base {
		t.Errorf("elapsed %v; back-off applied where a fixed delay was expected", elapsed)
	}
}

func TestDoBacksOffExponentially(t *testing.T) {
	base := 30 * time.Millisecond
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: base, Logger: NewLogger()}

	start := time.Now()
	attempts := 0
	err := r.Do("flaky", func() error {
		attempts++
		return errors.New("still broken")
	})
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d; want 3", attempts)
	}
	// Sleeps of base then 2*base.
	if elapsed < 3*base {
		t.Errorf("elapsed %v; want at least %v (doubling delays)", elapsed, 3*base)
	}
}
