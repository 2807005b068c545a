package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/nbang/pkg/api"
)

const jejuTrip = `
name: Jeju trip
participants: [A, B, C, D]
rounds:
  - title: Dinner
    amount: 100000
    payer: A
  - title: Drinks
    amount: "50000"
    payer: D
    excluded: [C]
  - title: Taxi
    amount: 30000.00
    payer: A
    excluded: [A, B]
`

func TestLoadGathering(t *testing.T) {
	name, participants, rounds, err := loadGathering(strings.NewReader(jejuTrip))
	require.NoError(t, err)

	assert.Equal(t, "Jeju trip", name)
	require.Len(t, participants, 4)
	assert.Equal(t, "A", participants[0].ID)
	assert.Equal(t, "D", participants[3].Name)

	require.Len(t, rounds, 3)
	assert.True(t, rounds[1].Amount.Equal(decimal.NewFromInt(50000)), "string amounts parse")
	assert.True(t, rounds[2].Amount.Equal(decimal.NewFromInt(30000)), "decimal amounts parse")
	assert.Equal(t, "D", rounds[1].PayerID)
	assert.Equal(t, []string{"A", "B"}, rounds[2].ExcludedParticipantIDs)
}

func TestLoadGatheringErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "empty file",
			input:   "",
			wantErr: "empty gathering file",
		},
		{
			name:    "duplicate participant",
			input:   "participants: [A, A]",
			wantErr: `duplicate participant "A"`,
		},
		{
			name:    "unknown payer",
			input:   "participants: [A]\nrounds:\n  - {title: x, amount: 10, payer: Z}",
			wantErr: `unknown payer "Z"`,
		},
		{
			name:    "unknown exclusion",
			input:   "participants: [A]\nrounds:\n  - {title: x, amount: 10, payer: A, excluded: [Q]}",
			wantErr: `unknown excluded participant "Q"`,
		},
		{
			name:    "negative amount",
			input:   "participants: [A]\nrounds:\n  - {title: x, amount: -10, payer: A}",
			wantErr: "amount must be positive",
		},
		{
			name:    "sub-cent amount",
			input:   "participants: [A]\nrounds:\n  - {title: x, amount: 10.001, payer: A}",
			wantErr: "more than 2 decimal places",
		},
		{
			name:    "not a number",
			input:   "participants: [A]\nrounds:\n  - {title: x, amount: lots, payer: A}",
			wantErr: `invalid amount "lots"`,
		},
		{
			name:    "unknown field",
			input:   "participants: [A]\ncurrency: KRW",
			wantErr: "field currency not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := loadGathering(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func writeGatheringFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gathering.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSettleCommandTable(t *testing.T) {
	out := runCLI(t, "settle", writeGatheringFile(t, jejuTrip))

	assert.Contains(t, out, "Jeju trip")
	assert.Contains(t, out, "Total: 180000.00")
	assert.Contains(t, out, "88333.33")
	assert.Contains(t, out, "B -> A: 41667")
	assert.Contains(t, out, "C -> A: 40000")
	assert.Contains(t, out, "D -> A: 6667")
}

func TestSettleCommandJSON(t *testing.T) {
	out := runCLI(t, "settle", "--json", writeGatheringFile(t, jejuTrip))

	var calc api.Calculation
	require.NoError(t, json.Unmarshal([]byte(out), &calc))

	assert.Equal(t, "Jeju trip", calc.GatheringName)
	assert.True(t, calc.TotalAmount.Equal(decimal.NewFromInt(180000)))
	require.Len(t, calc.Balances, 4)
	require.Len(t, calc.Debts, 3)
	assert.Equal(t, "B", calc.Debts[0].FromParticipantID)
	assert.True(t, calc.Debts[0].Amount.Equal(decimal.NewFromInt(41667)))
}

func TestSettleCommandSettled(t *testing.T) {
	out := runCLI(t, "settle", writeGatheringFile(t, "participants: [A, B]\n"))
	assert.Contains(t, out, "Everyone is settled.")
}

func TestSettleCommandMissingFile(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"settle", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, cmd.Execute())
}
