// Package modkit assembles API modules from shared dependencies and options
package modkit

import (
	"custintel/internal/core/registry"
	"custintel/internal/modkit/repokit"
	"custintel/internal/platform/config"
	"custintel/internal/platform/logger"
	"custintel/internal/platform/metrics"
)

// Deps is what cmd hands every module constructor. Optional members are nil
// when their feature is off; modules that need one panic at construction.
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner // run ledger

	Models  *registry.Registry
	Metrics *metrics.Metrics
}
