// Package dataset holds the in-memory flower measurement table and the
// analysis operations run against it.
//
// A Table is a flat, ordered collection of rows with a fixed schema: four
// numeric measurements and one categorical label. It is backed by a gota
// DataFrame. The operations mirror a typical exploratory session:
//
//   - Load / Read / LoadRecords: build a Table from CSV or raw records
//   - Clean: strip a fixed prefix from the category label
//   - Inspect: shape, column types, head preview and value counts
//   - Describe: count, mean, std, min, quartiles, max and range per column
//   - GroupAggregate: per-category aggregates with per-column overrides
//   - Reshape: wide to long form for grouped plotting
//
// Any malformed row aborts loading; there is no partial-result policy.
package dataset
