// Package domain holds DTOs for prediction http and service contracts
package domain

// Lead quality

// LeadInput is one lead as submitted by the capture channels
// budget is in pesos; urgency is the 1..5 form scale
type LeadInput struct {
	Name        string   `json:"name" validate:"required,max=200" example:"Andrea Gómez"`
	City        string   `json:"city" validate:"required,max=100" example:"Bogotá"`
	Channel     string   `json:"channel,omitempty" validate:"omitempty,max=50" example:"WhatsApp Bot"`
	Budget      *float64 `json:"budget,omitempty" validate:"omitempty,min=0" example:"60000000"`
	Urgency     *int     `json:"urgency,omitempty" validate:"omitempty,min=1,max=5" example:"5"`
	ServiceType string   `json:"service_type,omitempty" validate:"omitempty,max=100" example:"SEO"`
}

// LeadOutput is the scored lead
type LeadOutput struct {
	Name          string             `json:"name" example:"Andrea Gómez"`
	Channel       string             `json:"channel" example:"WhatsApp Bot"`
	QualityLabel  string             `json:"quality_label" example:"hot"`
	QualityScore  float64            `json:"quality_score" example:"0.87"`
	Probabilities map[string]float64 `json:"probabilities"`
	BudgetBracket string             `json:"budget_bracket" example:">=50M"`
	UrgencyTier   string             `json:"urgency_tier" example:"immediate"`
}

// LeadBatchInput scores many leads at once
type LeadBatchInput struct {
	Leads []LeadInput `json:"leads" validate:"required,min=1,dive"`
}

// Churn

// ChurnInput is one customer's behaviour and transaction summary
type ChurnInput struct {
	ClientID         string   `json:"client_id" validate:"required,max=100" example:"C-1042"`
	Engagement       string   `json:"engagement" validate:"required,level" example:"low"`
	Satisfaction     string   `json:"satisfaction" validate:"required,level" example:"medium"`
	DaysSinceLast    *float64 `json:"days_since_last_purchase" validate:"required,min=0" example:"120"`
	TotalSpend       *float64 `json:"total_spend" validate:"required,min=0" example:"1850000"`
	AveragePurchase  *float64 `json:"average_purchase" validate:"required,min=0" example:"370000"`
	TransactionCount *int     `json:"transaction_count" validate:"required,min=0" example:"5"`
	SpendStdDev      float64  `json:"spend_std_dev,omitempty" validate:"min=0" example:"42000"`
}

// ChurnOutput is the scored customer
type ChurnOutput struct {
	ClientID         string  `json:"client_id" example:"C-1042"`
	ChurnProbability float64 `json:"churn_probability" example:"0.64"`
	RiskLevel        string  `json:"risk_level" example:"high"`
}

// ChurnBatchInput scores many customers at once
type ChurnBatchInput struct {
	Customers []ChurnInput `json:"customers" validate:"required,min=1,dive"`
}
