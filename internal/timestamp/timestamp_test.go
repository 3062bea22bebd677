package timestamp

import (
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	n := New(DefaultZone)

	tests := []struct {
		in   string
		want string
	}{
		// NZDT is UTC+13 in January.
		{"2026-01-15T10:00:00Z", "2026-01-15 23:00:00"},
		{"2026-01-15T10:00:00.123Z", "2026-01-15 23:00:00"},
		// NZST is UTC+12 in July.
		{"2026-07-15T10:00:00+00:00", "2026-07-15 22:00:00"},
		{"2026-07-15T22:00:00+12:00", "2026-07-15 22:00:00"},
		{"2026-07-15T10:00:00", "2026-07-15 22:00:00"},
		{"2026-12-31T12:30:00Z", "2027-01-01 01:30:00"},
	}

	for _, tt := range tests {
		got := n.Format(tt.in)
		if got != tt.want {
			t.Errorf("Format(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormat_Fallback(t *testing.T) {
	n := New(DefaultZone)
	for _, in := range []string{"not-a-date", "", "2026-13-45T99:00:00Z", "Z"} {
		if got := n.Format(in); got != in {
			t.Errorf("Format(%q) = %q, want input unchanged", in, got)
		}
	}
}

func TestNew_UnknownZone(t *testing.T) {
	n := New("Mars/Olympus_Mons")
	if n.Location != time.UTC {
		t.Errorf("Location = %v, want UTC", n.Location)
	}
	if got := n.Format("2026-01-15T10:00:00Z"); got != "2026-01-15 10:00:00" {
		t.Errorf("Format = %q, want UTC rendering", got)
	}
}

func TestFormat_ZeroNormalizer(t *testing.T) {
	var n Normalizer
	if got := n.Format("2026-01-15T10:00:00Z"); got != "2026-01-15 10:00:00" {
		t.Errorf("Format = %q, want UTC rendering", got)
	}
}
