// Package aggregate collapses a transaction log into one summary row per customer
package aggregate

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Transaction is one purchase in the log
type Transaction struct {
	CustomerID string
	Amount     float64
	Date       time.Time
}

// Summary is the per-customer aggregate
// StdDev is the sample standard deviation and is 0 when Count < 2
type Summary struct {
	CustomerID string    `json:"customer_id"`
	Total      float64   `json:"total"`
	Mean       float64   `json:"mean"`
	Count      int       `json:"count"`
	StdDev     float64   `json:"std_dev"`
	LastDate   time.Time `json:"last_date"`
}

// acc collects one customer's amounts in log order
type acc struct {
	amounts []float64
	last    time.Time
}

func (a *acc) add(x float64, at time.Time) {
	a.amounts = append(a.amounts, x)
	if at.After(a.last) {
		a.last = at
	}
}

func (a *acc) summary(id string) Summary {
	s := Summary{CustomerID: id, Count: len(a.amounts), LastDate: a.last}
	switch {
	case s.Count > 1:
		s.Mean, s.StdDev = stat.MeanStdDev(a.amounts, nil)
	case s.Count == 1:
		s.Mean = a.amounts[0]
	}
	s.Total = floats.Sum(a.amounts)
	return s
}

// ByCustomer groups txns by customer id
func ByCustomer(txns []Transaction) map[string]Summary {
	accs := make(map[string]*acc)
	for _, t := range txns {
		a, ok := accs[t.CustomerID]
		if !ok {
			a = &acc{}
			accs[t.CustomerID] = a
		}
		a.add(t.Amount, t.Date)
	}
	out := make(map[string]Summary, len(accs))
	for id, a := range accs {
		out[id] = a.summary(id)
	}
	return out
}

// LeftJoin returns one summary per id in ids order; customers without transactions get zeros
func LeftJoin(ids []string, by map[string]Summary) []Summary {
	out := make([]Summary, len(ids))
	for i, id := range ids {
		if s, ok := by[id]; ok {
			out[i] = s
			continue
		}
		out[i] = Summary{CustomerID: id}
	}
	return out
}
