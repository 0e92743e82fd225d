package cli

import (
	"fmt"
	"io"

	"github.com/hupe1980/recstore"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	envFile    string
	logLevel   string
	logFormat  string
	collection string
	codec      string
	source     string
	dir        string
	seeds      []string
}

// NewRootCommand builds the recstore command tree.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "recstore",
		Short:         "Query keyed records loaded from JSON dumps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	pf.StringVar(&opts.envFile, "env-file", ".env", "dotenv file with RECSTORE_* variables")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format (text, json)")
	pf.StringVar(&opts.collection, "collection", "", "collection (inventory, contacts)")
	pf.StringVar(&opts.codec, "codec", "", "JSON codec (json, go-json)")
	pf.StringVar(&opts.source, "source", "", "seed source (local, s3, minio)")
	pf.StringVar(&opts.dir, "dir", "", "directory for the local source")
	pf.StringArrayVar(&opts.seeds, "seed", nil, "seed dump to load, repeatable")

	cmd.AddCommand(
		newQueryCommand(opts, out, errOut),
		newGetCommand(opts, out, errOut),
		newSchemaCommand(opts, out, errOut),
		newShellCommand(opts, out, errOut),
	)
	return cmd
}

// newApp resolves the configuration for cmd and builds the App.
func (o *rootOptions) newApp(cmd *cobra.Command, out, errOut io.Writer) (*App, error) {
	if err := LoadDotEnv(o.envFile); err != nil {
		return nil, err
	}
	cfg, err := LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
	if flags.Changed("collection") {
		cfg.Collection = o.collection
	}
	if flags.Changed("codec") {
		cfg.Codec = o.codec
	}
	if flags.Changed("source") {
		cfg.Source.Type = o.source
	}
	if flags.Changed("dir") {
		cfg.Source.Dir = o.dir
	}
	if flags.Changed("seed") {
		cfg.Seeds = o.seeds
	}

	return NewApp(cmd.Context(), cfg, out, errOut)
}

func newQueryCommand(opts *rootOptions, out, errOut io.Writer) *cobra.Command {
	var (
		where  []string
		sortBy string
		output string
		q      Query
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter and sort the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output != "table" && output != "json" {
				return fmt.Errorf("unsupported output %q", output)
			}
			if q.Limit < 0 {
				return fmt.Errorf("limit must not be negative")
			}

			app, err := opts.newApp(cmd, out, errOut)
			if err != nil {
				return err
			}

			q.Sort = recstore.Field(sortBy)
			if q.Where, err = ParseConditions(where); err != nil {
				return err
			}

			rows, err := app.Collection.Query(q)
			app.Logger.LogQuery(cmd.Context(), q, len(rows), err)
			if err != nil {
				return err
			}

			if output == "json" {
				return RenderJSON(out, app.Codec, app.Collection.KeyField(), rows)
			}
			RenderTable(out, app.Collection.KeyField(), app.Collection.Schema(), rows)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&q.Match, "match", "m", "", "substring matched against every string field")
	f.StringArrayVarP(&where, "where", "w", nil, "field=value equality filter, repeatable")
	f.StringVarP(&sortBy, "sort", "s", "", "field to sort by")
	f.BoolVar(&q.Desc, "desc", false, "sort descending")
	f.IntVarP(&q.Limit, "limit", "n", 0, "maximum number of results (0 for all)")
	f.StringVarP(&output, "output", "o", "table", "output format (table, json)")
	return cmd
}

func newGetCommand(opts *rootOptions, out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Show one record by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.newApp(cmd, out, errOut)
			if err != nil {
				return err
			}
			row, ok, err := app.Collection.Get(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no record with %s %q", app.Collection.KeyField(), args[0])
			}
			RenderTable(out, app.Collection.KeyField(), app.Collection.Schema(), []Row{row})
			return nil
		},
	}
}

func newSchemaCommand(opts *rootOptions, out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Show the collection schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.newApp(cmd, out, errOut)
			if err != nil {
				return err
			}
			RenderSchema(out, app.Collection.KeyField(), app.Collection.Schema())
			return nil
		},
	}
}

func newShellCommand(opts *rootOptions, out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session over the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.newApp(cmd, out, errOut)
			if err != nil {
				return err
			}
			return NewShell(app, out).Run(cmd.Context())
		},
	}
}
