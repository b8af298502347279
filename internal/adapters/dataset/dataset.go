// Package dataset reads the training CSV exports from a data directory.
//
// Columns are matched by header name, never by position. Headers are trimmed,
// lower cased and passed through an optional rename map so legacy exports can
// be read without editing them.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"custintel/internal/core/aggregate"
	"custintel/internal/core/features"
)

// File names inside the data directory
const (
	LeadsFile        = "leads.csv"
	BehaviorFile     = "customer_behavior.csv"
	TransactionsFile = "customer_transactions.csv"
)

// ErrMissingColumn is returned when a required header is absent
var ErrMissingColumn = errors.New("dataset: missing column")

// Required headers per file
var (
	LeadColumns        = []string{features.FieldBudget, features.FieldUrgency, features.FieldServiceType, features.FieldCity, features.FieldQuality}
	BehaviorColumns    = []string{features.FieldCustomerID, features.FieldEngagement, features.FieldSatisfaction, features.FieldDaysSince}
	TransactionColumns = []string{features.FieldCustomerID, "amount", "date"}
)

// dateLayouts are tried in order for transaction dates
var dateLayouts = []string{time.DateOnly, time.RFC3339, time.DateTime, "2006/01/02"}

// ReadRecords decodes a headed CSV into records keyed by (renamed) header
func ReadRecords(r io.Reader, rename map[string]string, required []string) ([]features.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: header: %w", err)
	}
	names := header(head, rename)
	if err := requireColumns(names, required); err != nil {
		return nil, err
	}

	var out []features.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: %w", err)
		}
		if blank(row) {
			continue
		}
		rec := make(features.Record, len(names))
		for i, name := range names {
			if name != "" && i < len(row) {
				rec[name] = strings.TrimSpace(row[i])
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func header(head []string, rename map[string]string) []string {
	lower := make(map[string]string, len(rename))
	for from, to := range rename {
		lower[strings.ToLower(strings.TrimSpace(from))] = to
	}
	names := make([]string, len(head))
	for i, h := range head {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if to, ok := lower[h]; ok {
			h = to
		}
		names[i] = h
	}
	return names
}

func requireColumns(names, required []string) error {
	have := make(map[string]bool, len(names))
	for _, n := range names {
		have[n] = true
	}
	var missing []string
	for _, r := range required {
		if !have[r] {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// readFile opens dir/name; a missing file keeps fs.ErrNotExist in the chain
func readFile(dir, name string, rename map[string]string, required []string) ([]features.Record, error) {
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	defer func() { _ = f.Close() }()
	recs, err := ReadRecords(f, rename, required)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// Leads reads leads.csv
func Leads(dir string, rename map[string]string) ([]features.Record, error) {
	return readFile(dir, LeadsFile, rename, LeadColumns)
}

// Behavior reads customer_behavior.csv; a churned column is passed through when present
func Behavior(dir string, rename map[string]string) ([]features.Record, error) {
	return readFile(dir, BehaviorFile, rename, BehaviorColumns)
}

// Transactions reads customer_transactions.csv into typed transactions
func Transactions(dir string, rename map[string]string) ([]aggregate.Transaction, error) {
	recs, err := readFile(dir, TransactionsFile, rename, TransactionColumns)
	if err != nil {
		return nil, err
	}
	out := make([]aggregate.Transaction, 0, len(recs))
	for i, r := range recs {
		amount, err := strconv.ParseFloat(r["amount"], 64)
		if err != nil {
			return nil, fmt.Errorf("dataset: %s row %d: amount %q is not a number", TransactionsFile, i+1, r["amount"])
		}
		at, err := parseDate(r["date"])
		if err != nil {
			return nil, fmt.Errorf("dataset: %s row %d: %w", TransactionsFile, i+1, err)
		}
		out = append(out, aggregate.Transaction{CustomerID: r[features.FieldCustomerID], Amount: amount, Date: at})
	}
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q is not YYYY-MM-DD", s)
}
