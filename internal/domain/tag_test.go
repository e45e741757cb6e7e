package domain

import "testing"

func TestNormalizeTag(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"#2PP", "#2PP"},
		{"2pp", "#2PP"},
		{"##2pp", "#2PP"},
		{"  #8qu8j9lp ", "#8QU8J9LP"},
		{"#8QU8J9LO", "#8QU8J9L0"},
		{"", ""},
		{"#", ""},
	}

	for _, c := range cases {
		if got := NormalizeTag(c.in); got != c.want {
			t.Errorf("NormalizeTag(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestClassify(t *testing.T) {
	typ, ok := Classify(30)
	if !ok || typ != EventAttack {
		t.Errorf("Classify(30) = %v, %v, want ATTACK", typ, ok)
	}

	typ, ok = Classify(-20)
	if !ok || typ != EventDefense {
		t.Errorf("Classify(-20) = %v, %v, want DEFENSE", typ, ok)
	}

	if _, ok := Classify(0); ok {
		t.Error("Classify(0) should produce no event")
	}
}
