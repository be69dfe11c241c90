// Package pipeline runs the analysis of one dataset as a sequence of steps.
//
// A run loads the table (from CSV or SQLite), cleans the label column,
// profiles it, computes descriptive statistics and grouped aggregates,
// reshapes it to long form and renders the box plot. Each stage is a Step
// that receives the model.Analysis built so far and adds to it.
//
// Steps run strictly in order on one goroutine. BatchProcessor analyses
// several inputs side by side with errgroup; every input gets its own
// pipeline and its own Analysis, so nothing is shared between them.
package pipeline
