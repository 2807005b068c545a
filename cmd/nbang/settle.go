package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/nbang/internal/calculator"
	"github.com/mmynk/nbang/pkg/api"
)

// gatheringFile is the YAML input of the settle command. Participants are
// referred to by name.
//
//	name: Jeju trip
//	participants: [Alice, Bob, Charlie]
//	rounds:
//	  - title: BBQ
//	    amount: 60000
//	    payer: Alice
//	    excluded: [Charlie]
type gatheringFile struct {
	Name         string      `yaml:"name"`
	Participants []string    `yaml:"participants"`
	Rounds       []roundFile `yaml:"rounds"`
}

type roundFile struct {
	Title    string   `yaml:"title"`
	Amount   amount   `yaml:"amount"`
	Payer    string   `yaml:"payer"`
	Excluded []string `yaml:"excluded"`
}

// amount reads a YAML scalar as an exact decimal, never through float64.
type amount struct {
	decimal.Decimal
}

func (a *amount) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a number", value.Line)
	}
	d, err := decimal.NewFromString(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid amount %q", value.Line, value.Value)
	}
	a.Decimal = d
	return nil
}

// loadGathering decodes and validates a gathering file, returning the
// settlement core's input.
func loadGathering(r io.Reader) (string, []calculator.Participant, []calculator.Round, error) {
	var file gatheringFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return "", nil, nil, errors.New("empty gathering file")
		}
		return "", nil, nil, fmt.Errorf("failed to parse gathering file: %w", err)
	}

	participants := make([]calculator.Participant, 0, len(file.Participants))
	known := make(map[string]bool, len(file.Participants))
	for _, raw := range file.Participants {
		name := strings.TrimSpace(raw)
		if name == "" {
			return "", nil, nil, errors.New("participant name is required")
		}
		if known[name] {
			return "", nil, nil, fmt.Errorf("duplicate participant %q", name)
		}
		known[name] = true
		participants = append(participants, calculator.Participant{ID: name, Name: name})
	}

	rounds := make([]calculator.Round, 0, len(file.Rounds))
	for i, rf := range file.Rounds {
		label := rf.Title
		if label == "" {
			label = fmt.Sprintf("round %d", i+1)
		}
		if !rf.Amount.IsPositive() {
			return "", nil, nil, fmt.Errorf("%s: amount must be positive", label)
		}
		if !rf.Amount.Equal(rf.Amount.Round(calculator.ShareScale)) {
			return "", nil, nil, fmt.Errorf("%s: amount %s has more than %d decimal places", label, rf.Amount, calculator.ShareScale)
		}
		if !known[rf.Payer] {
			return "", nil, nil, fmt.Errorf("%s: unknown payer %q", label, rf.Payer)
		}
		for _, name := range rf.Excluded {
			if !known[name] {
				return "", nil, nil, fmt.Errorf("%s: unknown excluded participant %q", label, name)
			}
		}
		rounds = append(rounds, calculator.Round{
			ID:                     fmt.Sprintf("r%d", i+1),
			Amount:                 rf.Amount.Decimal,
			PayerID:                rf.Payer,
			ExcludedParticipantIDs: rf.Excluded,
		})
	}

	return file.Name, participants, rounds, nil
}

func newSettleCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "settle <file.yaml>",
		Short: "Settle a gathering described in a YAML file",
		Long: `Reads participants and rounds from a YAML file, prints each participant's
balance and the transfers that settle the gathering. Use "-" to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			name, participants, rounds, err := loadGathering(in)
			if err != nil {
				return err
			}
			slog.Debug("Gathering loaded", "name", name, "participants", len(participants), "rounds", len(rounds))

			result := calculator.Settle(participants, rounds)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), name, result)
			}
			return writeTable(cmd.OutOrStdout(), name, result)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

// writeJSON prints the result with the same field names as the RPC API.
func writeJSON(w io.Writer, name string, result calculator.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(api.NewCalculation("", name, result))
}

func writeTable(w io.Writer, name string, result calculator.Result) error {
	if name != "" {
		fmt.Fprintf(w, "%s\n\n", name)
	}
	fmt.Fprintf(w, "Total: %s\n\n", result.TotalAmount.StringFixed(calculator.ShareScale))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PARTICIPANT\tPAID\tOWED\tNET\t")
	for _, b := range result.Balances {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n",
			b.Name,
			b.TotalPaid.StringFixed(calculator.ShareScale),
			b.TotalOwed.StringFixed(calculator.ShareScale),
			b.NetBalance.StringFixed(calculator.ShareScale),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	if len(result.Debts) == 0 {
		fmt.Fprintln(w, "Everyone is settled.")
		return nil
	}
	for _, d := range result.Debts {
		fmt.Fprintf(w, "%s -> %s: %s\n", d.From, d.To, d.Amount.String())
	}
	return nil
}
