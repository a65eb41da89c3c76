// Package igdb implements the catalog enrichment pass: mirroring the IGDB
// games catalog and its lookup tables to local CSV snapshots (full or
// incremental by modification time), fuzzy-matching library games against
// catalog names with the 0-100 scorer, and reconciling same-name catalog
// duplicates down to one game per library record.
package igdb
