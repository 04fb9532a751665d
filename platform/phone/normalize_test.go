package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"11 91234-5678", "+5511912345678"},
		{"+5511912345678", "+5511912345678"},
		{"  (11) 91234-5678  ", "+5511912345678"},
		// Invalid numbers come back trimmed but untouched
		{"not a number", "not a number"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := NormalizeE164(tc.input); got != tc.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
