package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/hupe1980/recstore"
	"github.com/spf13/cobra"
)

// Shell is an interactive session over one collection. Every line is
// dispatched to a cobra command tree; errors are printed and never end the
// session.
type Shell struct {
	app  *App
	out  io.Writer
	root *cobra.Command
}

// NewShell creates a shell writing to out.
func NewShell(app *App, out io.Writer) *Shell {
	s := &Shell{app: app, out: out}
	s.root = s.commands()
	return s
}

func (s *Shell) commands() *cobra.Command {
	root := &cobra.Command{
		Use:           "recstore",
		Short:         "recstore shell",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(s.out)
	root.SetErr(s.out)

	root.AddCommand(
		&cobra.Command{
			Use:                   "add field=value ...",
			Short:                 "Add or replace a record",
			DisableFlagsInUseLine: true,
			Args:                  cobra.MinimumNArgs(1),
			RunE:                  s.runAdd,
		},
		&cobra.Command{
			Use:                   "get key",
			Short:                 "Show one record",
			DisableFlagsInUseLine: true,
			Args:                  cobra.MinimumNArgs(1),
			RunE:                  s.runGet,
		},
		&cobra.Command{
			Use:                   "remove key",
			Aliases:               []string{"rm", "delete"},
			Short:                 "Remove a record",
			DisableFlagsInUseLine: true,
			Args:                  cobra.MinimumNArgs(1),
			RunE:                  s.runRemove,
		},
		&cobra.Command{
			Use:                   "list [sort=field] [match=text] [limit=n] [desc] [field=value ...]",
			Aliases:               []string{"ls", "find"},
			Short:                 "List records",
			DisableFlagsInUseLine: true,
			RunE:                  s.runList,
		},
		&cobra.Command{
			Use:   "count",
			Short: "Print the number of records",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				fmt.Fprintln(s.out, s.app.Collection.Len())
				return nil
			},
		},
		&cobra.Command{
			Use:   "schema",
			Short: "Show the collection schema",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				RenderSchema(s.out, s.app.Collection.KeyField(), s.app.Collection.Schema())
				return nil
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Show operation metrics",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return RenderStats(s.out, s.app.Registry)
			},
		},
	)
	return root
}

func (s *Shell) runAdd(cmd *cobra.Command, args []string) error {
	fields, err := ParseAssignments(args)
	if err != nil {
		return err
	}
	key, err := s.app.Collection.Add(fields)
	s.app.Logger.LogMutation(cmd.Context(), "add", key, err)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "stored %s\n", key)
	return nil
}

func (s *Shell) runGet(cmd *cobra.Command, args []string) error {
	row, ok, err := s.app.Collection.Get(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(s.out, "not found")
		return nil
	}
	RenderTable(s.out, s.app.Collection.KeyField(), s.app.Collection.Schema(), []Row{row})
	return nil
}

func (s *Shell) runRemove(cmd *cobra.Command, args []string) error {
	key := strings.Join(args, " ")
	removed, err := s.app.Collection.Remove(key)
	s.app.Logger.LogMutation(cmd.Context(), "remove", key, err)
	if err != nil {
		return err
	}
	if removed {
		fmt.Fprintf(s.out, "removed %s\n", key)
	} else {
		fmt.Fprintln(s.out, "not found")
	}
	return nil
}

func (s *Shell) runList(cmd *cobra.Command, args []string) error {
	q, err := parseListArgs(args)
	if err != nil {
		return err
	}
	rows, err := s.app.Collection.Query(q)
	s.app.Logger.LogQuery(cmd.Context(), q, len(rows), err)
	if err != nil {
		return err
	}
	RenderTable(s.out, s.app.Collection.KeyField(), s.app.Collection.Schema(), rows)
	return nil
}

func parseListArgs(args []string) (Query, error) {
	q := Query{Sort: recstore.NoSort}
	for _, arg := range args {
		if arg == "desc" {
			q.Desc = true
			continue
		}
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return Query{}, fmt.Errorf("expected option=value, got %q", arg)
		}
		switch name {
		case "sort":
			q.Sort = recstore.Field(value)
		case "match":
			q.Match = value
		case "limit":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return Query{}, fmt.Errorf("invalid limit %q", value)
			}
			q.Limit = n
		default:
			q.Where = append(q.Where, Condition{Field: name, Value: value})
		}
	}
	return q, nil
}

// Exec runs one input line. It reports whether the session should end.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return false
	case "exit", "quit":
		return true
	}

	args, err := splitArgs(line)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return false
	}

	s.root.SetArgs(args)
	if err := s.root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
	return false
}

// Run reads lines until exit, EOF or an interrupt on an empty line.
func (s *Shell) Run(ctx context.Context) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            s.app.Collection.Name() + "> ",
		HistoryFile:       historyFile(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		Stdout:            s.out,
	})
	if err != nil {
		return err
	}
	defer l.Close()

	for {
		line, err := l.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}

		if s.Exec(ctx, line) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "recstore_history")
}

// splitArgs splits a line on whitespace. Double or single quotes group
// words, so `add name="John Doe"` is two arguments.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		quote   rune
		inToken bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			if inToken {
				args = append(args, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote in %q", line)
	}
	if inToken {
		args = append(args, cur.String())
	}
	return args, nil
}
