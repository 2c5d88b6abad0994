package numbering

import "testing"

func TestSeed(t *testing.T) {
	if got := Seed(PrefixInvoice); got != "INV-001" {
		t.Fatalf("expected INV-001, got %q", got)
	}
	if got := Seed(PrefixReceipt); got != "REC-001" {
		t.Fatalf("expected REC-001, got %q", got)
	}
}

func TestNext(t *testing.T) {
	t.Run("empty latest returns seed", func(t *testing.T) {
		if got := Next("", PrefixInvoice); got != "INV-001" {
			t.Fatalf("expected INV-001, got %q", got)
		}
	})

	t.Run("increments and pads", func(t *testing.T) {
		cases := map[string]string{
			"INV-001": "INV-002",
			"INV-009": "INV-010",
			"INV-099": "INV-100",
			"INV-999": "INV-1000",
		}
		for latest, want := range cases {
			if got := Next(latest, PrefixInvoice); got != want {
				t.Fatalf("Next(%q) = %q, want %q", latest, got, want)
			}
		}
	})

	t.Run("malformed latest falls back to seed", func(t *testing.T) {
		for _, latest := range []string{"INV001", "QUO-005", "INV-", "INV-abc", "garbage", "INV--3"} {
			if got := Next(latest, PrefixInvoice); got != "INV-001" {
				t.Fatalf("Next(%q) = %q, want INV-001", latest, got)
			}
		}
	})

	t.Run("serial sequence is strictly increasing", func(t *testing.T) {
		latest := ""
		var prev string
		for i := 0; i < 25; i++ {
			next := Next(latest, PrefixQuotation)
			if prev != "" && next <= prev {
				t.Fatalf("sequence not increasing: %q after %q", next, prev)
			}
			prev = next
			latest = next
		}
		if latest != "QUO-025" {
			t.Fatalf("expected QUO-025 after 25 assignments, got %q", latest)
		}
	})
}
