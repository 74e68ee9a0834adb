package enums

import "testing"

func TestParseDirection(t *testing.T) {
	tests := []struct {
		raw  string
		want Direction
		ok   bool
	}{
		{raw: "like", want: DirectionLike, ok: true},
		{raw: " RIGHT ", want: DirectionLike, ok: true},
		{raw: "Pass", want: DirectionPass, ok: true},
		{raw: "left", want: DirectionPass, ok: true},
		{raw: "superlike", ok: false},
		{raw: "", ok: false},
	}

	for _, tc := range tests {
		got, ok := ParseDirection(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("unexpected parse of %q: got (%q, %v) want (%q, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}
