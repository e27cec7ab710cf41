package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"(415) 555-2671", "+14155552671"},
		{"+14155552671", "+14155552671"},
		{"", ""},
		{"not a number", "not a number"},
	}
	for _, c := range cases {
		if got := NormalizeE164(c.input); got != c.want {
			t.Fatalf("NormalizeE164(%q) = %q, want %q", c.input, got, c.want)
		}
	}
}

func TestIsPlausible(t *testing.T) {
	if !IsPlausible("+14155552671") {
		t.Fatal("expected a valid US number to be plausible")
	}
	if IsPlausible("12") {
		t.Fatal("expected a two-digit string to be implausible")
	}
	if IsPlausible("") {
		t.Fatal("expected empty input to be implausible")
	}
}
