package editor

import "github.com/vjranagit/queryeditor/pkg/types"

// EffectiveQuery is a stored query with the current scenario's defaults merged in
type EffectiveQuery struct {
	Query types.Query

	StringInputVisible bool
	LabelsVisible      bool
	PointsVisible      bool

	scenario types.Scenario
	resolved bool
}

// Current returns the scenario the query resolved to. ok is false while the
// catalog is loading, after a failed fetch, or for an unknown id.
func (e EffectiveQuery) Current() (types.Scenario, bool) {
	return e.scenario, e.resolved
}

// ResolveScenarioID returns the query's scenario id or the default one
func ResolveScenarioID(q types.Query) string {
	if q.ScenarioID != "" {
		return q.ScenarioID
	}
	return types.DefaultScenarioID
}

// FindScenario returns the first scenario with the given id
func FindScenario(scenarios []types.Scenario, id string) (types.Scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return types.Scenario{}, false
}

// EffectiveStringInput applies the string input precedence: the query's own
// value, then the scenario default, then empty.
func EffectiveStringInput(q types.Query, scenario types.Scenario, ok bool) string {
	if q.StringInput != "" {
		return q.StringInput
	}
	if ok {
		return scenario.StringInput
	}
	return ""
}

// Reconcile computes the effective query. It never modifies q.
func Reconcile(q types.Query, scenarios []types.Scenario) EffectiveQuery {
	id := ResolveScenarioID(q)
	scenario, ok := FindScenario(scenarios, id)

	effective := q.Clone()
	effective.ScenarioID = id
	effective.StringInput = EffectiveStringInput(q, scenario, ok)

	return EffectiveQuery{
		Query:              effective,
		StringInputVisible: IsStringInputVisible(scenario, ok),
		LabelsVisible:      IsLabelsFieldVisible(id),
		PointsVisible:      IsPointListVisible(scenario, ok),
		scenario:           scenario,
		resolved:           ok,
	}
}

// ChangeScenario switches q to scenarioID. The string input is reset to the
// new scenario's default, discarding whatever was typed for the previous one.
// Points, alias and labels are carried over untouched.
func ChangeScenario(q types.Query, scenarioID string, scenarios []types.Scenario) types.Query {
	next := q.Clone()
	next.ScenarioID = scenarioID
	next.StringInput = ""
	if scenario, ok := FindScenario(scenarios, scenarioID); ok {
		next.StringInput = scenario.StringInput
	}
	return next
}
