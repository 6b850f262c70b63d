package cli

import (
	"github.com/valter-silva-au/taskfn/internal/observability"
	"github.com/valter-silva-au/taskfn/pkg/models"
)

// Service instances and settings, set during app initialization in app.go.
var (
	BasePath    string
	Config      *models.Config
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
)
