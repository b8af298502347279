package features

import "custintel/internal/core/codebook"

// Lead record fields
const (
	FieldBudget      = "budget"
	FieldUrgency     = "urgency"
	FieldServiceType = "service_type"
	FieldCity        = "city"
	FieldQuality     = "quality"
)

// DefaultServiceType is used when a lead does not say what it wants
const DefaultServiceType = "Social Ads"

// LeadColumns is the lead vector order every lead bundle must carry
var LeadColumns = []string{"budget_midpoint", "urgency_level", "service_type_code", "city_code"}

// LeadRecord is a lead already mapped into the training vocabulary
type LeadRecord struct {
	Budget      string
	Urgency     string
	ServiceType string
	City        string
}

// Record converts the typed lead into a builder record
func (r LeadRecord) Record() Record {
	return Record{
		FieldBudget:      r.Budget,
		FieldUrgency:     r.Urgency,
		FieldServiceType: r.ServiceType,
		FieldCity:        r.City,
	}
}

// LeadLayout builds the lead layout, deriving service type and city codes from training rows
func LeadLayout(rows []Record) Layout {
	services := make([]string, 0, len(rows))
	cities := make([]string, 0, len(rows))
	for _, r := range rows {
		services = append(services, r[FieldServiceType])
		cities = append(cities, r[FieldCity])
	}
	budget, urgency := codebook.Budget(), codebook.Urgency()
	return Layout{
		Columns: []Column{
			{Name: LeadColumns[0], Field: FieldBudget, Kind: Ordinal, Vocab: budget.Name},
			{Name: LeadColumns[1], Field: FieldUrgency, Kind: Ordinal, Vocab: urgency.Name},
			{Name: LeadColumns[2], Field: FieldServiceType, Kind: Category, Vocab: FieldServiceType},
			{Name: LeadColumns[3], Field: FieldCity, Kind: Category, Vocab: FieldCity},
		},
		Fixed: map[string]codebook.Fixed{
			budget.Name:  budget,
			urgency.Name: urgency,
		},
		Observed: map[string]*codebook.Map{
			FieldServiceType: codebook.Build(services),
			FieldCity:        codebook.Build(cities),
		},
	}
}
