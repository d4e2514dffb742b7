package catalog

import (
	"context"

	"github.com/vjranagit/queryeditor/pkg/types"
)

// Builtin returns the default synthetic-data scenarios
func Builtin() []types.Scenario {
	return []types.Scenario{
		{ID: "random_walk", Name: "Random Walk"},
		{ID: "csv_metric_values", Name: "CSV Metric Values", StringInput: "1,20,90,30,5,0"},
		{ID: "predictable_pulse", Name: "Predictable Pulse", Description: "Deterministic on/off pulse wave"},
		{ID: "predictable_csv_wave", Name: "Predictable CSV Wave", Description: "Repeating wave built from CSV values"},
		{ID: "manual_entry", Name: "Manual Entry", Description: "Series entered point by point"},
		{ID: "random_walk_table", Name: "Random Walk Table"},
		{ID: "random_walk_with_error", Name: "Random Walk (with error)"},
		{ID: "slow_query", Name: "Slow Query", StringInput: "5s"},
		{ID: "no_data_points", Name: "No Data Points"},
		{ID: "datapoints_outside_range", Name: "Datapoints Outside Range"},
		{ID: "server_error_500", Name: "Server Error (500)"},
		{ID: "logs", Name: "Logs"},
	}
}

// Static serves a fixed scenario list from memory
type Static struct {
	scenarios []types.Scenario
}

// NewStatic creates a provider over scenarios; nil means Builtin()
func NewStatic(scenarios []types.Scenario) *Static {
	if scenarios == nil {
		scenarios = Builtin()
	}
	return &Static{scenarios: append([]types.Scenario(nil), scenarios...)}
}

// ListScenarios returns a copy of the configured list
func (s *Static) ListScenarios(ctx context.Context) ([]types.Scenario, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]types.Scenario(nil), s.scenarios...), nil
}
