package commands

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/bankfeed/internal/institution"
	"github.com/cleared-dev/bankfeed/internal/logger"
	"github.com/cleared-dev/bankfeed/internal/parse"
)

func newParseCommand() *cobra.Command {
	var institutionName string
	var profilePath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "parse <statement-file>",
		Short: "Parse one statement export and print the canonical records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log := logger.New(level)

			parser, err := resolveParser(institutionName, profilePath, log)
			if err != nil {
				return err
			}
			return runParse(cmd.OutOrStdout(), parser, args[0])
		},
	}

	cmd.Flags().StringVar(&institutionName, "institution", "ics", "built-in institution profile")
	cmd.Flags().StringVar(&profilePath, "profile", "", "path to a YAML institution profile (overrides --institution)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log skipped and discarded rows")

	return cmd
}

func resolveParser(name, profilePath string, log zerolog.Logger) (*parse.Parser, error) {
	if profilePath != "" {
		profile, err := institution.Load(profilePath)
		if err != nil {
			return nil, err
		}
		return parse.New(profile, log)
	}
	parser := parse.DefaultRegistry(log).Get(name)
	if parser == nil {
		return nil, fmt.Errorf("unknown institution %q", name)
	}
	return parser, nil
}

func runParse(w io.Writer, parser *parse.Parser, path string) error {
	res, err := parser.ParseFile(path)
	if err != nil {
		return err
	}

	for _, txn := range res.Transactions {
		fmt.Fprintf(w, "%s  %12s  %s", txn.Date.Format("2006-01-02"), txn.Amount, txn.SourceDesc)
		if txn.ForeignAmount != nil {
			fmt.Fprintf(w, "  (%s)", txn.ForeignAmount)
		}
		fmt.Fprintf(w, "  [%s]\n", txn.Provenance)
	}
	for _, bal := range res.Balances {
		fmt.Fprintf(w, "balance %s  %12s  account %s\n", bal.Date.Format("2006-01-02"), bal.Amount, bal.Account)
	}
	fmt.Fprintf(w, "%d transactions, %d zero-amount rows skipped, %d noise rows\n",
		len(res.Transactions), res.SkippedZero, res.NoiseRows)
	return nil
}
