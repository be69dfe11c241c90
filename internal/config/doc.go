// Package config provides configuration structures and utilities for
// florastat. It defines the run options for loading, analysing and plotting
// a dataset, the YAML configuration file and where that file is looked up.
package config
