package codebook

// Lead quality labels, ordered cold < warm < hot
const (
	LeadCold = "cold"
	LeadWarm = "warm"
	LeadHot  = "hot"
)

// Churn labels, ordered no_churn < churn
const (
	NoChurn = "no_churn"
	Churn   = "churn"
)

// LeadLabels is the lead quality label vocabulary; index 2 is the high class
func LeadLabels() *Map { return Build([]string{LeadCold, LeadWarm, LeadHot}) }

// ChurnLabels is the churn label vocabulary; index 1 is the positive class
func ChurnLabels() *Map { return Build([]string{NoChurn, Churn}) }
