// Package database stores measurement tables in SQLite.
//
// A Store holds any number of named tables, each with one REAL column per
// measurement and one TEXT column for the label, plus an imports table that
// records where every table came from. Tables are written by the import
// command and read back as an alternative to a CSV input.
//
// The driver is modernc.org/sqlite, so no cgo toolchain is required.
package database
