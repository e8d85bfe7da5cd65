package email

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestRenderAppointmentReminder(t *testing.T) {
	subject, body, err := renderAppointmentReminder(AppointmentReminder{
		LeadName:      "Ada <script>",
		Title:         "Product Presentation",
		Location:      "Zoom",
		ScheduledAt:   time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC),
		MinutesBefore: 1440,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if subject != "Reminder: Product Presentation on Mon Mar 2, 3:30 PM" {
		t.Fatalf("unexpected subject %q", subject)
	}
	for _, want := range []string{"starts in 1 day", "Zoom", "Ada &lt;script&gt;"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %q", want)
		}
	}
}

func TestRenderFollowUpDigest(t *testing.T) {
	subject, body, err := renderFollowUpDigest(FollowUpDigest{
		GeneratedAt: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		Items: []DigestItem{
			{LeadName: "Ada", Status: "New Leads", Priority: "urgent", Timing: "3 days overdue", SuggestedAction: "Call immediately"},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if subject != "Follow-up digest: 1 due" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if !strings.Contains(body, "Call immediately") || !strings.Contains(body, "2026-03-02") {
		t.Fatalf("digest body missing content")
	}

	_, empty, err := renderFollowUpDigest(FollowUpDigest{})
	if err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if !strings.Contains(empty, "No follow-ups are due") {
		t.Fatalf("expected empty-state copy")
	}
}

func TestFormatLeadTime(t *testing.T) {
	cases := map[int]string{0: "now", 15: "in 15 minutes", 60: "in 1 hour", 120: "in 2 hours", 1440: "in 1 day", 2880: "in 2 days", 90: "in 90 minutes"}
	for minutes, want := range cases {
		if got := formatLeadTime(minutes); got != want {
			t.Fatalf("formatLeadTime(%d) = %q, want %q", minutes, got, want)
		}
	}
}

func TestSMTPMessageHeaders(t *testing.T) {
	s := NewSMTPSender("smtp.example.com", 587, "", "", "rep@example.com", "MLM Sales Pro")
	msg, err := s.buildMessage("ada@example.com", "Hello", "<p>hi</p>")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	raw := buf.String()
	if !strings.Contains(raw, "Subject: Hello") || !strings.Contains(raw, "<ada@example.com>") {
		t.Fatalf("unexpected message:\n%s", raw)
	}

	if _, err := s.buildMessage("not an address", "x", "y"); err == nil {
		t.Fatalf("expected invalid recipient to fail")
	}
}
