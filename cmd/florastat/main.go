// Package main provides the entry point for the florastat CLI.
//
// florastat runs the exploratory analysis of the Iris flower dataset:
// it loads the CSV, strips the "Iris-" label prefix, describes every
// measurement, aggregates per species and draws a grouped box plot.
//
// Usage:
//
//	florastat report data/Iris_Data.csv
//	florastat report --plot box.png --markdown data/Iris_Data.csv
//	florastat import data/Iris_Data.csv iris.db
//
// See --help for all available options.
package main

func main() {
	Execute()
}
