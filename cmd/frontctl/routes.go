package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/joeydtaylor/frontctl/pkg/codec"
	"github.com/joeydtaylor/frontctl/pkg/core"
	"github.com/joeydtaylor/frontctl/pkg/dispatch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func routesCmd() *cobra.Command {
	var (
		format  string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		Long: `Scan the configured namespace, bind the results against the compiled
registrations and print every mapped URL, followed by the candidates that
were skipped and the keys that were overwritten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			man, err := core.LoadConfig(manifestFlag(cmd))
			if err != nil {
				return err
			}
			log := zap.NewNop()
			if verbose {
				if log, err = zap.NewDevelopment(); err != nil {
					return err
				}
			}
			t, err := dispatch.New(man, core.Default, dispatch.WithLogger(log)).Reload(background(cmd))
			if err != nil {
				return err
			}

			switch format {
			case "json":
				b, err := codec.JSONIndented.Marshal(codec.NewReport(t))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return err
			case "table", "":
				return printTable(cmd.OutOrStdout(), t)
			default:
				return fmt.Errorf("unknown format %q (want table or json)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table or json")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log scan progress to stderr")
	return cmd
}

func printTable(w io.Writer, t *core.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "URL\tCLASS\tMETHOD\tSOURCE")
	for _, rt := range t.Routes() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rt.Key(), rt.QualifiedType(), rt.MethodName, rt.Source)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if s := t.Skipped(); len(s) > 0 {
		fmt.Fprintf(w, "\nskipped (%d):\n", len(s))
		for _, sk := range s {
			fmt.Fprintf(w, "  %s\n", sk.Error())
		}
	}
	if c := t.Collisions(); len(c) > 0 {
		fmt.Fprintf(w, "\noverwritten (%d):\n", len(c))
		for _, col := range c {
			fmt.Fprintf(w, "  %s: %s.%s replaced by %s.%s\n", col.Key,
				col.Replaced.QualifiedType(), col.Replaced.MethodName,
				col.Winner.QualifiedType(), col.Winner.MethodName)
		}
	}
	return nil
}

// background is used when a command runs without a cobra context.
func background(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
