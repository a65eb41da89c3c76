// Package tabular provides the flat-file plumbing shared by the pipeline
// passes: CSV read/write helpers, dated extract directories, latest-snapshot
// discovery, and the keyed upsert used to merge fresh match batches into
// persisted tables.
package tabular
