// Package hltb implements the playtime enrichment pass: querying the
// HowLongToBeat search API for each eligible library game, reconciling the
// candidate fan-out down to one best record per game by release-year
// proximity, and upserting the result into the persisted playtime table.
//
// Similarity on this pass is the lookup client's own 0-1 score between the
// search name and each returned title. It is a different scale from the
// catalog pass's 0-100 scorer and the two are deliberately not unified.
package hltb
