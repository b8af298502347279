package features

import "custintel/internal/core/codebook"

// Churn record fields
const (
	FieldCustomerID   = "customer_id"
	FieldEngagement   = "engagement"
	FieldSatisfaction = "satisfaction"
	FieldDaysSince    = "days_since_last_purchase"
	FieldTotalSpend   = "total_spend"
	FieldAvgPurchase  = "average_purchase"
	FieldTxnCount     = "transaction_count"
	FieldSpendStdDev  = "spend_std_dev"
	FieldChurned      = "churned"
)

// DefaultDaysSince is assumed when recency is unknown
const DefaultDaysSince = 30

// ChurnColumns is the churn vector order every churn bundle must carry
var ChurnColumns = []string{
	"engagement_level",
	"satisfaction_level",
	FieldDaysSince,
	FieldTotalSpend,
	FieldAvgPurchase,
	FieldTxnCount,
	FieldSpendStdDev,
}

// ChurnRecord is one customer's behaviour plus transaction summary
type ChurnRecord struct {
	Engagement   string
	Satisfaction string
	DaysSince    *float64
	TotalSpend   float64
	AvgPurchase  float64
	TxnCount     float64
	SpendStdDev  float64
}

// Record converts the typed churn row into a builder record
func (r ChurnRecord) Record() Record {
	rec := Record{
		FieldEngagement:   r.Engagement,
		FieldSatisfaction: r.Satisfaction,
		FieldTotalSpend:   FormatFloat(r.TotalSpend),
		FieldAvgPurchase:  FormatFloat(r.AvgPurchase),
		FieldTxnCount:     FormatFloat(r.TxnCount),
		FieldSpendStdDev:  FormatFloat(r.SpendStdDev),
	}
	if r.DaysSince != nil {
		rec[FieldDaysSince] = FormatFloat(*r.DaysSince)
	}
	return rec
}

// ChurnLayout builds the churn layout; it has no observed vocabularies
func ChurnLayout() Layout {
	engagement, satisfaction := codebook.Engagement(), codebook.Satisfaction()
	return Layout{
		Columns: []Column{
			{Name: ChurnColumns[0], Field: FieldEngagement, Kind: Ordinal, Vocab: engagement.Name},
			{Name: ChurnColumns[1], Field: FieldSatisfaction, Kind: Ordinal, Vocab: satisfaction.Name},
			{Name: ChurnColumns[2], Field: FieldDaysSince, Kind: Numeric, Default: DefaultDaysSince},
			{Name: ChurnColumns[3], Field: FieldTotalSpend, Kind: Numeric},
			{Name: ChurnColumns[4], Field: FieldAvgPurchase, Kind: Numeric},
			{Name: ChurnColumns[5], Field: FieldTxnCount, Kind: Numeric},
			{Name: ChurnColumns[6], Field: FieldSpendStdDev, Kind: Numeric},
		},
		Fixed: map[string]codebook.Fixed{
			engagement.Name:   engagement,
			satisfaction.Name: satisfaction,
		},
	}
}
