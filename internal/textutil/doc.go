// Package textutil provides text processing utilities for game-name
// normalization and similarity scoring.
//
// The primary use cases are:
//   - Normalizing game names before matching (Unicode NFC, punctuation rules)
//   - Computing edit-distance similarity ratios between names
//
// Similarity uses a rune-level Levenshtein distance normalized to either a
// 0-100 integer scale (catalog matching) or a 0-1 float scale (playtime
// lookups, which keep the external service's own scale).
package textutil
