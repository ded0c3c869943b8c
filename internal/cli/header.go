package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/keiba-flat/internal/convert"
	"github.com/pfrederiksen/keiba-flat/internal/logger"
	"github.com/pfrederiksen/keiba-flat/internal/schema"
)

func newHeaderCmd(a *app) *cobra.Command {
	var csvLine bool

	cmd := &cobra.Command{
		Use:   "header",
		Short: "Print the table columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if csvLine {
				fmt.Fprintln(w, strings.Join(convert.Schema.Header(), ","))
				return nil
			}
			fmt.Fprintf(w, "# schema %s, %d columns\n", convert.Schema.Version, len(convert.Schema.Columns))
			for _, c := range convert.Schema.Columns {
				fmt.Fprintf(w, "%s\t%s\n", c.Name, c.Kind)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&csvLine, "csv", false, "Print the header as a single CSV line")
	return cmd
}

func newDescribeCmd(a *app) *cobra.Command {
	var (
		input   string
		columns []string
	)

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Summarize a CSV table produced by convert",
		Long: `Describe loads a CSV table and prints summary statistics per column: mean,
median, standard deviation, min, max and quartiles. Empty cells are missing values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("opening %s: %w", input, err)
			}
			defer f.Close()

			df := dataframe.ReadCSV(f,
				dataframe.HasHeader(true),
				dataframe.NaNValues([]string{""}),
				dataframe.WithTypes(seriesTypes(convert.Schema)),
			)
			if df.Err != nil {
				return fmt.Errorf("reading %s: %w", input, df.Err)
			}

			if len(columns) > 0 {
				df = df.Select(columns)
				if df.Err != nil {
					return fmt.Errorf("selecting columns: %w", df.Err)
				}
			}

			a.log.Debug("table loaded", logger.Fields{"rows": df.Nrow(), "columns": df.Ncol()})
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows\n%s\n", df.Nrow(), df.Describe())
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "CSV table to describe")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Only describe these columns")
	cmd.MarkFlagRequired("input")
	return cmd
}

// seriesTypes maps schema columns onto gota column types so that sparse integer
// columns are not detected as strings.
func seriesTypes(s *schema.Schema) map[string]series.Type {
	types := make(map[string]series.Type, len(s.Columns))
	for _, c := range s.Columns {
		switch c.Kind {
		case schema.Flag, schema.Int:
			types[c.Name] = series.Int
		case schema.Float:
			types[c.Name] = series.Float
		default:
			types[c.Name] = series.String
		}
	}
	return types
}
