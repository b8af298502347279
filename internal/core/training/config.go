package training

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"custintel/internal/core/classifier"
	"custintel/internal/core/selection"
)

// Problem configures one model type
type Problem struct {
	Metric     selection.Metric  `yaml:"metric"`
	Candidates []classifier.Spec `yaml:"candidates"`
}

// Columns maps source header names onto the names the readers expect, per file
type Columns struct {
	Leads        map[string]string `yaml:"leads,omitempty"`
	Behavior     map[string]string `yaml:"behavior,omitempty"`
	Transactions map[string]string `yaml:"transactions,omitempty"`
}

// Config is the training run configuration
type Config struct {
	Holdout float64 `yaml:"holdout"`
	Seed    uint64  `yaml:"seed"`
	Columns Columns `yaml:"columns"`
	Lead    Problem `yaml:"lead"`
	Churn   Problem `yaml:"churn"`
}

// Defaults returns the stock configuration: a 20% stratified holdout with seed
// 42, logistic vs random forest on accuracy for leads and random forest vs
// gradient boosting on ROC AUC for churn
func Defaults() Config {
	return Config{
		Holdout: 0.2,
		Seed:    42,
		Lead: Problem{
			Metric: selection.Accuracy,
			Candidates: []classifier.Spec{
				{Name: "logistic_regression", Kind: classifier.KindLogistic, Params: classifier.Params{"max_iter": 1000}},
				{Name: "random_forest", Kind: classifier.KindRandomForest, Params: classifier.Params{
					"n_estimators": 100, "max_depth": 10, "min_samples_split": 5, "balanced": 1,
				}},
			},
		},
		Churn: Problem{
			Metric: selection.ROCAUC,
			Candidates: []classifier.Spec{
				{Name: "random_forest", Kind: classifier.KindRandomForest, Params: classifier.Params{
					"n_estimators": 150, "max_depth": 8, "balanced": 1,
				}},
				{Name: "gradient_boosting", Kind: classifier.KindGradientBoosting, Params: classifier.Params{
					"n_estimators": 150, "learning_rate": 0.1, "max_depth": 5,
				}},
			},
		},
	}
}

// LoadConfig overlays the YAML file at path on Defaults; an empty path means defaults only
// a candidates list in the file replaces the default list for that model
func LoadConfig(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("training config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("training config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("training config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the holdout, metrics and candidate kinds
func (c Config) Validate() error {
	if c.Holdout <= 0 || c.Holdout >= 1 || math.IsNaN(c.Holdout) {
		return fmt.Errorf("holdout must be in (0,1), got %v", c.Holdout)
	}
	return errors.Join(
		c.Lead.validate("lead", 3),
		c.Churn.validate("churn", 2),
	)
}

func (p Problem) validate(name string, numClasses int) error {
	switch p.Metric {
	case selection.Accuracy:
	case selection.ROCAUC:
		if numClasses != 2 {
			return fmt.Errorf("%s: %s needs a binary problem", name, p.Metric)
		}
	default:
		return fmt.Errorf("%s: unknown metric %q", name, p.Metric)
	}
	if len(p.Candidates) == 0 {
		return fmt.Errorf("%s: no candidates", name)
	}
	seen := map[string]bool{}
	for i, spec := range p.Candidates {
		if _, err := classifier.New(spec); err != nil {
			return fmt.Errorf("%s: candidate %d: %w", name, i, err)
		}
		key := spec.Name
		if key == "" {
			key = spec.Kind
		}
		if seen[key] {
			return fmt.Errorf("%s: candidate name %q used twice", name, key)
		}
		seen[key] = true
	}
	return nil
}
