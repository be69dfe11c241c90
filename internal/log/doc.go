// Package log builds the slog loggers used by florastat.
//
// Analyses log the files they read and write. Paths below the user's home
// directory are shortened to "~/..." so that logs stay readable and can be
// pasted into bug reports without exposing the account name.
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Info("loaded dataset", "path", "/home/alice/iris.csv")
//	// level=INFO msg="loaded dataset" path=~/iris.csv
package log
