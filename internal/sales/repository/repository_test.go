package repository

import "testing"

func TestFormatSaleCode(t *testing.T) {
	tests := []struct {
		year int
		seq  int64
		want string
	}{
		{2026, 1, "SO-2026-0001"},
		{2026, 42, "SO-2026-0042"},
		{2027, 9999, "SO-2027-9999"},
		{2027, 10000, "SO-2027-10000"},
	}
	for _, tt := range tests {
		if got := formatSaleCode(tt.year, tt.seq); got != tt.want {
			t.Errorf("formatSaleCode(%d, %d) = %q, want %q", tt.year, tt.seq, got, tt.want)
		}
	}
}
