package modkit

import (
	"custintel/internal/modkit/module"
)

// Module is the contract every New in services/api returns
type Module = module.Module
