package editor

import "github.com/vjranagit/queryeditor/pkg/types"

// labelScenarios lists the scenarios whose generators accept labels
var labelScenarios = map[string]struct{}{
	"random_walk":          {},
	"predictable_pulse":    {},
	"predictable_csv_wave": {},
}

// IsLabelsFieldVisible reports whether the labels field is shown for a scenario
func IsLabelsFieldVisible(scenarioID string) bool {
	_, ok := labelScenarios[scenarioID]
	return ok
}

// IsStringInputVisible reports whether the resolved scenario declares a
// default string input. An unresolved scenario never shows the field.
func IsStringInputVisible(scenario types.Scenario, ok bool) bool {
	return ok && scenario.StringInput != ""
}

// IsPointListVisible reports whether the manual point list controls are mounted
func IsPointListVisible(scenario types.Scenario, ok bool) bool {
	return ok && scenario.ID == types.ManualEntryScenarioID
}
