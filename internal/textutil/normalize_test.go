package textutil_test

import (
	"testing"

	"gamedex/internal/textutil"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "colon removed", input: "Ori and the Blind Forest: Definitive Edition", want: "Ori and the Blind Forest Definitive Edition"},
		{name: "en dash replaced", input: "Nier – Automata", want: "Nier - Automata"},
		{name: "em dash replaced", input: "Nier — Automata", want: "Nier - Automata"},
		{name: "whitespace collapsed", input: "  Hollow   Knight ", want: "Hollow Knight"},
		{name: "accents kept", input: "Pokémon Red", want: "Pokémon Red"},
		{name: "empty", input: "", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := textutil.NormalizeName(tc.input); got != tc.want {
				t.Fatalf("NormalizeName(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestScoreKeyEquivalences(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{name: "case folded", a: "DOOM", b: "Doom"},
		{name: "colon and case", a: "NieR: Automata", b: "nier automata"},
		{name: "whitespace", a: "  Hollow   Knight ", b: "hollow knight"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ka, kb := textutil.ScoreKey(tc.a), textutil.ScoreKey(tc.b)
			if ka != kb {
				t.Fatalf("ScoreKey(%q) = %q, ScoreKey(%q) = %q; want equal", tc.a, ka, tc.b, kb)
			}
		})
	}
	if textutil.Ratio(textutil.ScoreKey("DOOM"), textutil.ScoreKey("Doom")) != 100 {
		t.Fatal("score keys of case variants must score 100")
	}
}

func TestFirstRuneFold(t *testing.T) {
	if got := textutil.FirstRuneFold("Witcher"); got != 'w' {
		t.Fatalf("FirstRuneFold(Witcher) = %q, want 'w'", got)
	}
	if got := textutil.FirstRuneFold(""); got != 0 {
		t.Fatalf("FirstRuneFold of empty string = %q, want 0", got)
	}
}
