// Package model defines the result structure shared by the pipeline, the
// report writers and the command layer.
//
// An Analysis collects everything produced for one input: where it came
// from, the profile taken before and after label cleanup, descriptive
// statistics, grouped aggregates and the location of the rendered plot.
// It lives in its own package so that pipeline and report can both depend
// on it without importing each other.
//
// Analyses are serializable to JSON for the JSON report.
package model
