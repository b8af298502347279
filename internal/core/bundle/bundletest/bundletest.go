// Package bundletest builds small fitted bundles for tests in other packages
package bundletest

import (
	"context"
	"testing"
	"time"

	"custintel/internal/core/bundle"
	"custintel/internal/core/classifier"
	"custintel/internal/core/codebook"
	"custintel/internal/core/features"
	"custintel/internal/core/scaler"
	"custintel/internal/core/selection"
)

// TrainedAt is the fixed training time stamped on fixture bundles
var TrainedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

// HotLead is the feature record of the hot fixture row
var HotLead = features.LeadRecord{Budget: codebook.BudgetOver50M, Urgency: codebook.TierImmediate, ServiceType: "SEO", City: "Bogotá"}

// ColdLead is the feature record of the cold fixture row
var ColdLead = features.LeadRecord{Budget: codebook.BudgetUnder5M, Urgency: codebook.TierLow, ServiceType: "Social Ads", City: "Medellín"}

// Lead fits a logistic lead bundle on three rows, one per quality class
func Lead(tb testing.TB) bundle.Bundle {
	tb.Helper()
	rows := []features.Record{
		ColdLead.Record(),
		{features.FieldBudget: codebook.Budget10To20M, features.FieldUrgency: codebook.TierMedium, features.FieldServiceType: "Social Ads", features.FieldCity: "Cali"},
		HotLead.Record(),
	}
	return fit(tb, bundle.KindLead, features.LeadLayout(rows), codebook.LeadLabels(), rows, []int{0, 1, 2})
}

// Churn fits a logistic churn bundle on a handful of customers
func Churn(tb testing.TB) bundle.Bundle {
	tb.Helper()
	row := func(eng, sat string, days, spend, n float64) features.Record {
		return features.ChurnRecord{
			Engagement: eng, Satisfaction: sat, DaysSince: &days,
			TotalSpend: spend, AvgPurchase: spend / max(n, 1), TxnCount: n,
		}.Record()
	}
	rows := []features.Record{
		row("high", "high", 5, 9e7, 9),
		row("high", "medium", 12, 6e7, 6),
		row("medium", "high", 20, 4e7, 5),
		row("low", "medium", 140, 2e6, 1),
		row("medium", "low", 95, 1e6, 1),
		row("low", "low", 200, 0, 0),
	}
	return fit(tb, bundle.KindChurn, features.ChurnLayout(), codebook.ChurnLabels(), rows, []int{0, 0, 0, 1, 1, 1})
}

func fit(tb testing.TB, kind string, layout features.Layout, labels *codebook.Map, rows []features.Record, y []int) bundle.Bundle {
	tb.Helper()
	X, err := layout.Matrix(rows, nil)
	if err != nil {
		tb.Fatalf("matrix: %v", err)
	}
	st, err := scaler.Fit(X)
	if err != nil {
		tb.Fatalf("scaler: %v", err)
	}
	Z, err := st.TransformAll(X)
	if err != nil {
		tb.Fatalf("transform: %v", err)
	}
	tr, err := classifier.New(classifier.Spec{Name: "logistic", Kind: classifier.KindLogistic})
	if err != nil {
		tb.Fatalf("trainer: %v", err)
	}
	m, err := tr.Fit(context.Background(), Z, y, labels.Len())
	if err != nil {
		tb.Fatalf("fit: %v", err)
	}
	return bundle.Bundle{
		Model:  m,
		Scaler: st,
		Config: bundle.Config{
			Kind:      kind,
			RunID:     "fixture",
			TrainedAt: TrainedAt,
			Layout:    layout,
			Labels:    labels,
			Selection: selection.Report{Metric: selection.Accuracy, Winner: "logistic", Score: 1, TrainRows: len(rows)},
		},
	}
}
