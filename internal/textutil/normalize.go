package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var punctReplacer = strings.NewReplacer(
	"–", "-", // en dash
	"—", "-", // em dash
	":", "",
)

var foldCaser = cases.Fold()

// NormalizeName prepares a game name for matching: Unicode NFC composition,
// dash and colon punctuation rules, and whitespace collapsing. Accented
// characters are kept as-is ("Pokémon" stays "Pokémon").
func NormalizeName(name string) string {
	name = norm.NFC.String(name)
	name = punctReplacer.Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

// Fold returns a case-folded form of s suitable for caseless comparison.
func Fold(s string) string {
	return foldCaser.String(s)
}

// ScoreKey reduces a name to the form similarity scoring compares on:
// punctuation and whitespace normalization, then case folding. "DOOM: Eternal"
// and "doom eternal" share a key.
func ScoreKey(s string) string {
	return Fold(NormalizeName(s))
}

// FirstRuneFold returns the case-folded first rune of s, or 0 when s is empty.
func FirstRuneFold(s string) rune {
	for _, r := range Fold(s) {
		return r
	}
	return 0
}
