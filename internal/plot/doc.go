// Package plot renders the grouped box plot of a long-form measurement
// table: one box per (measurement, category) pair, measurements along the
// x axis and categories distinguished by fill colour.
//
// Rendering uses gonum.org/v1/plot. The output format is chosen from the
// file extension (png, svg, pdf, eps, jpg, tif).
package plot
