package cli

import (
	"fmt"
	"os"

	"github.com/opd-ai/rdfstore"
	"github.com/opd-ai/rdfstore/results"
	"github.com/opd-ai/rdfstore/sparql"
	"github.com/spf13/cobra"
)

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <subject> <predicate> <object>",
		Short: "Insert one statement",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, rootOpts, func(s *rdfstore.Store) error {
				return s.AddTriple(args[0], args[1], args[2])
			})
		},
	}
}

// NewContainsCommand creates the contains command.
func NewContainsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "contains <subject> <predicate> <object>",
		Short: "Report whether a statement is stored",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, rootOpts, func(s *rdfstore.Store) error {
				ok, err := s.ContainsTriple(args[0], args[1], args[2])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), ok)
				return err
			})
		},
	}
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of stored statements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, rootOpts, func(s *rdfstore.Store) error {
				n, err := s.Count()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
				return err
			})
		},
	}
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	var placeholder bool

	cmd := &cobra.Command{
		Use:   "query <sparql|->",
		Short: "Evaluate a SPARQL query",
		Long: `Evaluate a SPARQL query and print the result.

SELECT prints one line per solution. ASK prints true or false. CONSTRUCT
and DESCRIBE print the produced statements as N-Triples, or the fixed text
"graph result" with --placeholder. Pass "-" to read the query from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := argument(cmd, args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, rootOpts, func(s *rdfstore.Store) error {
				res, err := s.Query(text)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if res.Kind == sparql.ResultGraph && !placeholder {
					_, err = fmt.Fprint(out, results.Graph(res.Graph))
					return err
				}
				if rendered := results.Render(res); rendered != "" {
					_, err = fmt.Fprintln(out, rendered)
				}
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&placeholder, "placeholder", false, "print graph results as the C API does")
	return cmd
}

// NewQuadsCommand creates the quads command.
func NewQuadsCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "quads",
		Short: "List stored statements as N-Triples in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, rootOpts, func(s *rdfstore.Store) error {
				quads, err := s.Quads()
				if err != nil {
					return err
				}
				if limit >= 0 && limit < len(quads) {
					quads = quads[:limit]
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), results.Graph(quads))
				return err
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", -1, "print at most n statements (negative for all)")
	return cmd
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Serialize the store as Turtle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, rootOpts, func(s *rdfstore.Store) error {
				text, err := s.SerializeTurtle()
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					_, err = fmt.Fprint(cmd.OutOrStdout(), text)
					return err
				}
				if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	var base string

	cmd := &cobra.Command{
		Use:   "load <file|->...",
		Short: "Load Turtle documents and print the resulting statement count",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, rootOpts, func(s *rdfstore.Store) error {
				for _, path := range args {
					if err := loadFile(cmd, s, path, base); err != nil {
						return err
					}
				}
				n, err := s.Count()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&base, "base", "", "base IRI text (validated, not used for resolution)")
	return cmd
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every statement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, rootOpts, func(s *rdfstore.Store) error {
				return s.Clear()
			})
		},
	}
}
