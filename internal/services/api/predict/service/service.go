// Package service maps prediction requests onto the scoring engines
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"custintel/internal/core/bundle"
	"custintel/internal/core/codebook"
	"custintel/internal/core/features"
	"custintel/internal/core/scoring"
	perr "custintel/internal/platform/errors"
	"custintel/internal/services/api/predict/domain"
)

// Service defines the prediction service contract
type Service interface {
	domain.ServicePort
}

// Models hands out the current engine per model type
type Models interface {
	Lead() (*scoring.LeadEngine, error)
	Churn() (*scoring.ChurnEngine, error)
}

// Observer records scoring latency
type Observer interface {
	ObserveScore(model, mode string, d time.Duration)
}

// Scoring modes reported to the Observer
const (
	ModeSingle = "single"
	ModeBatch  = "batch"
)

// Options tune a Svc
type Options struct {
	// BatchMax caps items per batch request, domain.DefaultBatch when zero
	BatchMax int
	// Observer is optional
	Observer Observer
}

// Svc implements the prediction service
type Svc struct {
	models   Models
	batchMax int
	obs      Observer
	now      func() time.Time
}

// New constructs a prediction service
func New(models Models, opts Options) *Svc {
	if models == nil {
		panic("predict.Service requires non nil Models")
	}
	if opts.BatchMax <= 0 {
		opts.BatchMax = domain.DefaultBatch
	}
	return &Svc{models: models, batchMax: opts.BatchMax, obs: opts.Observer, now: time.Now}
}

// Lead scores one lead
func (s *Svc) Lead(_ context.Context, in domain.LeadInput) (domain.LeadOutput, error) {
	eng, err := s.models.Lead()
	if err != nil {
		return domain.LeadOutput{}, err
	}
	rec, err := leadRecord(in)
	if err != nil {
		return domain.LeadOutput{}, err
	}
	defer s.observe(bundle.KindLead, ModeSingle, s.now())
	sc, err := eng.Score(rec.Record())
	if err != nil {
		return domain.LeadOutput{}, scoreErr(bundle.KindLead, err)
	}
	return leadOutput(in, rec, sc), nil
}

// LeadBatch scores leads in input order
func (s *Svc) LeadBatch(ctx context.Context, in domain.LeadBatchInput) ([]domain.LeadOutput, error) {
	if err := s.checkBatch(len(in.Leads)); err != nil {
		return nil, err
	}
	eng, err := s.models.Lead()
	if err != nil {
		return nil, err
	}
	typed := make([]features.LeadRecord, len(in.Leads))
	recs := make([]features.Record, len(in.Leads))
	for i, l := range in.Leads {
		if typed[i], err = leadRecord(l); err != nil {
			return nil, itemErr("leads", i, err)
		}
		recs[i] = typed[i].Record()
	}
	defer s.observe(bundle.KindLead, ModeBatch, s.now())
	scores, err := eng.ScoreBatch(ctx, recs)
	if err != nil {
		return nil, scoreErr(bundle.KindLead, err)
	}
	out := make([]domain.LeadOutput, len(scores))
	for i, sc := range scores {
		out[i] = leadOutput(in.Leads[i], typed[i], sc)
	}
	return out, nil
}

// Churn scores one customer
func (s *Svc) Churn(_ context.Context, in domain.ChurnInput) (domain.ChurnOutput, error) {
	eng, err := s.models.Churn()
	if err != nil {
		return domain.ChurnOutput{}, err
	}
	rec, err := churnRecord(in)
	if err != nil {
		return domain.ChurnOutput{}, err
	}
	defer s.observe(bundle.KindChurn, ModeSingle, s.now())
	sc, err := eng.Score(rec.Record())
	if err != nil {
		return domain.ChurnOutput{}, scoreErr(bundle.KindChurn, err)
	}
	return churnOutput(in, sc), nil
}

// ChurnBatch scores customers in input order
func (s *Svc) ChurnBatch(ctx context.Context, in domain.ChurnBatchInput) ([]domain.ChurnOutput, error) {
	if err := s.checkBatch(len(in.Customers)); err != nil {
		return nil, err
	}
	eng, err := s.models.Churn()
	if err != nil {
		return nil, err
	}
	recs := make([]features.Record, len(in.Customers))
	for i, c := range in.Customers {
		rec, err := churnRecord(c)
		if err != nil {
			return nil, itemErr("customers", i, err)
		}
		recs[i] = rec.Record()
	}
	defer s.observe(bundle.KindChurn, ModeBatch, s.now())
	scores, err := eng.ScoreBatch(ctx, recs)
	if err != nil {
		return nil, scoreErr(bundle.KindChurn, err)
	}
	out := make([]domain.ChurnOutput, len(scores))
	for i, sc := range scores {
		out[i] = churnOutput(in.Customers[i], sc)
	}
	return out, nil
}

func (s *Svc) checkBatch(n int) error {
	if n > s.batchMax {
		return perr.InvalidArgf("batch of %d items exceeds the limit of %d", n, s.batchMax)
	}
	return nil
}

func (s *Svc) observe(model, mode string, start time.Time) {
	if s.obs != nil {
		s.obs.ObserveScore(model, mode, s.now().Sub(start))
	}
}

func leadRecord(in domain.LeadInput) (features.LeadRecord, error) {
	tier, err := domain.UrgencyTier(in.Urgency)
	if err != nil {
		return features.LeadRecord{}, perr.WithField(perr.InvalidArgf("%v", err), "urgency")
	}
	service := strings.TrimSpace(in.ServiceType)
	if service == "" {
		service = features.DefaultServiceType
	}
	return features.LeadRecord{
		Budget:      domain.BudgetBracket(in.Budget),
		Urgency:     tier,
		ServiceType: service,
		City:        in.City,
	}, nil
}

func leadOutput(in domain.LeadInput, rec features.LeadRecord, sc scoring.LeadScore) domain.LeadOutput {
	channel := strings.TrimSpace(in.Channel)
	if channel == "" {
		channel = domain.DefaultChannel
	}
	return domain.LeadOutput{
		Name:          in.Name,
		Channel:       channel,
		QualityLabel:  sc.Label,
		QualityScore:  sc.ProbabilityOfHot,
		Probabilities: sc.Distribution,
		BudgetBracket: rec.Budget,
		UrgencyTier:   rec.Urgency,
	}
}

func churnRecord(in domain.ChurnInput) (features.ChurnRecord, error) {
	if !codebook.Engagement().Has(in.Engagement) {
		return features.ChurnRecord{}, perr.WithField(
			perr.InvalidArgf("engagement %q must be one of low, medium, high", in.Engagement), "engagement")
	}
	if !codebook.Satisfaction().Has(in.Satisfaction) {
		return features.ChurnRecord{}, perr.WithField(
			perr.InvalidArgf("satisfaction %q must be one of low, medium, high", in.Satisfaction), "satisfaction")
	}
	switch {
	case in.DaysSinceLast == nil:
		return features.ChurnRecord{}, missing("days_since_last_purchase")
	case in.TotalSpend == nil:
		return features.ChurnRecord{}, missing("total_spend")
	case in.AveragePurchase == nil:
		return features.ChurnRecord{}, missing("average_purchase")
	case in.TransactionCount == nil:
		return features.ChurnRecord{}, missing("transaction_count")
	}
	return features.ChurnRecord{
		Engagement:   in.Engagement,
		Satisfaction: in.Satisfaction,
		DaysSince:    in.DaysSinceLast,
		TotalSpend:   *in.TotalSpend,
		AvgPurchase:  *in.AveragePurchase,
		TxnCount:     float64(*in.TransactionCount),
		SpendStdDev:  in.SpendStdDev,
	}, nil
}

func missing(field string) error {
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s is required", field), field)
}

func churnOutput(in domain.ChurnInput, sc scoring.ChurnScore) domain.ChurnOutput {
	return domain.ChurnOutput{
		ClientID:         in.ClientID,
		ChurnProbability: sc.Probability,
		RiskLevel:        domain.RiskLevel(sc.Probability),
	}
}

// scoreErr keeps caller errors readable and hides the rest behind an internal code
func scoreErr(kind string, err error) error {
	if perr.CodeOf(err) != perr.ErrorCodeUnknown {
		return err
	}
	return perr.Wrapf(err, perr.ErrorCodeUnknown, "%s scoring failed", kind)
}

// itemErr prefixes a batch item's error with its position
func itemErr(list string, i int, err error) error {
	e, ok := perr.As(err)
	if !ok {
		return err
	}
	field := fmt.Sprintf("%s[%d]", list, i)
	if e.Field() != "" {
		field += "." + e.Field()
	}
	return perr.WithField(perr.Newf(e.Code(), "%s: %s", field, e.ToWire().Message), field)
}
