// Package matching implements the name-resolution core shared by the
// enrichment passes: a first-letter candidate prefilter and a threshold-based
// best-match resolver over the textutil edit-distance scorer.
package matching
