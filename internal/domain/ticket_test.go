package domain

import "testing"

func TestValidStatusTransition(t *testing.T) {
	cases := []struct {
		current, next TicketStatus
		want          bool
	}{
		{TicketStatusProcessing, TicketStatusResolved, true},
		{TicketStatusProcessing, TicketStatusRejected, true},
		{TicketStatusProcessing, TicketStatusAwaitingConfirmation, true},
		{TicketStatusAwaitingConfirmation, TicketStatusResolved, true},
		{TicketStatusAwaitingConfirmation, TicketStatusProcessing, false},
		{TicketStatusResolved, TicketStatusRejected, false},
		{TicketStatusRejected, TicketStatusProcessing, false},
		{TicketStatusProcessing, TicketStatusProcessing, false},
	}
	for _, tc := range cases {
		if got := ValidStatusTransition(tc.current, tc.next); got != tc.want {
			t.Errorf("ValidStatusTransition(%s, %s) = %v, want %v", tc.current, tc.next, got, tc.want)
		}
	}
}

func TestParseTicketStatus(t *testing.T) {
	if status, ok := ParseTicketStatus("RESOLVED"); !ok || status != TicketStatusResolved {
		t.Fatalf("ParseTicketStatus(RESOLVED) = %q, %v", status, ok)
	}
	if _, ok := ParseTicketStatus("resolved"); ok {
		t.Fatal("expected lowercase status to be rejected")
	}
	if _, ok := ParseTicketStatus("DELETED"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestHasEvidence(t *testing.T) {
	rec := TicketRecord{EvidenceRef: EvidenceNone}
	if rec.HasEvidence() {
		t.Fatal("sentinel value should not count as evidence")
	}
	rec.EvidenceRef = "https://files.example/evidence/abc"
	if !rec.HasEvidence() {
		t.Fatal("expected evidence to be detected")
	}
}
