// Package library ingests the Playnite game-library CSV export and produces
// the cleaned library table every enrichment pass joins against. Cleaning
// strips platform suffixes from names, drops Apps/Ignore and status-less
// rows, dedupes on (name, release date), and derives the punctuation-free
// name and release-year columns used for matching.
package library
