package core

import "testing"

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		StatusInitialized: "INITIALIZED",
		StatusReady:       "READY",
		StatusRunning:     "RUNNING",
		StatusPaused:      "PAUSED",
		StatusCompleted:   "COMPLETED",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
		if !s.Valid() {
			t.Fatalf("%s should be valid", s)
		}
	}
	if Status(42).Valid() {
		t.Fatalf("out of range status reported valid")
	}
	if got := Status(42).String(); got != "Status(42)" {
		t.Fatalf("unexpected string for unknown status: %q", got)
	}
}

func TestStatusIsTerminal(t *testing.T) {
	if !StatusPaused.IsTerminal() || !StatusCompleted.IsTerminal() {
		t.Fatalf("paused and completed must be terminal")
	}
	if StatusRunning.IsTerminal() || StatusReady.IsTerminal() || StatusInitialized.IsTerminal() {
		t.Fatalf("non terminal state reported terminal")
	}
}

func TestStatusMarshalText(t *testing.T) {
	b, err := StatusPaused.MarshalText()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "PAUSED" {
		t.Fatalf("got %s", b)
	}
	if _, err := Status(-1).MarshalText(); err == nil {
		t.Fatalf("expected error for invalid status")
	}
}
