package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/nao1215/florastat/internal/config"
	"github.com/nao1215/florastat/internal/database"
	"github.com/nao1215/florastat/internal/dataset"
	"github.com/spf13/cobra"
)

// NewImportCmd creates the import command.
// This command stores a cleaned CSV table in a SQLite database so that it
// can be analysed later with 'florastat report --sqlite'.
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <csv> [database]",
		Short: "Import a CSV file into a SQLite database",
		Long: `Import loads a CSV file, strips the label prefix and stores the table in a
SQLite database. An existing table with the same name is replaced.

The database defaults to florastat.db in the XDG data directory. Each
import is recorded with its source path, SHA3-256 checksum and row count.

Examples:
  # Import into the default database
  florastat import data/Iris_Data.csv

  # Import into a specific database and table
  florastat import --table iris_raw --prefix "" data/Iris_Data.csv iris.db

  # Import a table whose category column is called "variety"
  florastat import --label variety data/flowers.csv

  # List the tables imported into a database
  florastat import --list iris.db

The schema, label and prefix settings of the configuration file apply
here as they do for 'florastat report'.`,
		Args: cobra.RangeArgs(0, 2),
		RunE: runImportCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .florastat in current or home directory)")
	cmd.Flags().String("table", config.DefaultTable,
		"Name of the table to create")
	cmd.Flags().String(config.FlagPrefix, dataset.DefaultLabelPrefix,
		"Prefix stripped from every species label before import (empty keeps labels as-is)")
	cmd.Flags().String(config.FlagLabel, dataset.ColumnSpecies,
		"Name of the category column")
	cmd.Flags().BoolP("list", "l", false,
		"List imported tables instead of importing")

	return cmd
}

// runImportCmd executes the import command.
func runImportCmd(cmd *cobra.Command, args []string) error {
	listImports, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	var csvPath, dbPath string
	switch {
	case listImports:
		if len(args) > 1 {
			return errors.New("--list takes at most one argument: the database path")
		}
		if len(args) == 1 {
			dbPath = args[0]
		}
	case len(args) == 0:
		return errors.New("a CSV file is required")
	default:
		csvPath = args[0]
		if len(args) == 2 {
			dbPath = args[1]
		}
	}
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}

	table, err := cmd.Flags().GetString("table")
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()

	if listImports {
		db, err := database.Open(dbPath, database.ReadOnlyOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		return listImportedTables(ctx, cmd.OutOrStdout(), db)
	}

	cfg, err := importConfig(cmd)
	if err != nil {
		return err
	}

	t, err := dataset.Load(csvPath, cfg.Schema)
	if err != nil {
		return err
	}
	cleaned := dataset.Clean(t, cfg.LabelPrefix)

	checksum, err := dataset.ChecksumFile(csvPath)
	if err != nil {
		return err
	}

	db, err := database.Open(dbPath, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	source := csvPath
	if abs, err := filepath.Abs(csvPath); err == nil {
		source = abs
	}
	if err := db.ImportTable(ctx, table, t, source, checksum); err != nil {
		return err
	}

	logger.Info("table imported",
		"source", source,
		"database", dbPath,
		"table", table,
		"rows", t.Len(),
		"cleanedLabels", cleaned,
	)

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows from %s into %s (table %s)\n",
		t.Len(), csvPath, dbPath, table)
	return nil
}

// importConfig collects the schema and label prefix from the flags and
// the configuration file.
func importConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	if cfg.LabelPrefix, err = cmd.Flags().GetString(config.FlagPrefix); err != nil {
		return nil, err
	}
	if cfg.Schema.Label, err = cmd.Flags().GetString(config.FlagLabel); err != nil {
		return nil, err
	}
	if err := applyConfigFile(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// listImportedTables prints the import records of db.
func listImportedTables(ctx context.Context, w io.Writer, db *database.Store) error {
	imports, err := db.ListImports(ctx)
	if err != nil {
		return err
	}

	if len(imports) == 0 {
		fmt.Fprintf(w, "No tables imported into %s\n", db.Path())
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tROWS\tIMPORTED\tSOURCE")
	for _, imp := range imports {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			imp.Name, imp.Rows, imp.ImportedAt.Format("2006-01-02 15:04:05"), imp.Source)
	}
	return tw.Flush()
}
