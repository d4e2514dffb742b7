package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vjranagit/queryeditor/pkg/types"
)

var testScenarios = []types.Scenario{
	{ID: "random_walk", Name: "Random Walk"},
	{ID: "csv_metric_values", Name: "CSV Metric Values", StringInput: "1,20,90,30,5,0"},
	{ID: "slow_query", Name: "Slow Query", StringInput: "5s"},
	{ID: "manual_entry", Name: "Manual Entry"},
	{ID: "csv_metric_values", Name: "Duplicate", StringInput: "ignored"},
}

func TestReconcileDefaultsScenario(t *testing.T) {
	eff := Reconcile(types.Query{}, testScenarios)

	assert.Equal(t, types.DefaultScenarioID, eff.Query.ScenarioID)
	s, ok := eff.Current()
	require.True(t, ok)
	assert.Equal(t, "Random Walk", s.Name)
	assert.True(t, eff.LabelsVisible)
	assert.False(t, eff.StringInputVisible)
	assert.False(t, eff.PointsVisible)
}

func TestReconcileStringInputPrecedence(t *testing.T) {
	tests := []struct {
		name      string
		query     types.Query
		scenarios []types.Scenario
		want      string
	}{
		{"query value wins", types.Query{ScenarioID: "csv_metric_values", StringInput: "9,9"}, testScenarios, "9,9"},
		{"query value wins without catalog", types.Query{ScenarioID: "csv_metric_values", StringInput: "9,9"}, nil, "9,9"},
		{"scenario default", types.Query{ScenarioID: "csv_metric_values"}, testScenarios, "1,20,90,30,5,0"},
		{"first duplicate wins", types.Query{ScenarioID: "csv_metric_values"}, testScenarios, "1,20,90,30,5,0"},
		{"unresolved scenario", types.Query{ScenarioID: "nope"}, testScenarios, ""},
		{"catalog loading", types.Query{ScenarioID: "csv_metric_values"}, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reconcile(tt.query, tt.scenarios).Query.StringInput)
		})
	}
}

func TestReconcileUnresolvedScenario(t *testing.T) {
	eff := Reconcile(types.Query{ScenarioID: "unknown"}, testScenarios)

	_, ok := eff.Current()
	assert.False(t, ok)
	assert.Equal(t, "unknown", eff.Query.ScenarioID)
	assert.False(t, eff.StringInputVisible)
	assert.False(t, eff.PointsVisible)
	assert.False(t, eff.LabelsVisible)
}

func TestReconcileIsPure(t *testing.T) {
	q := types.Query{Points: []types.Point{{Value: 1, Timestamp: 1}}}
	eff := Reconcile(q, testScenarios)
	eff.Query.Points[0].Value = 42

	assert.Equal(t, "", q.ScenarioID)
	assert.Equal(t, float64(1), q.Points[0].Value)
}

func TestChangeScenarioResetsStringInput(t *testing.T) {
	q := types.Query{
		ScenarioID:  "csv_metric_values",
		StringInput: "typed by hand",
		Alias:       "a",
		Labels:      "env=prod",
		Points:      []types.Point{{Value: 1, Timestamp: 1}},
	}

	next := ChangeScenario(q, "slow_query", testScenarios)
	assert.Equal(t, "slow_query", next.ScenarioID)
	assert.Equal(t, "5s", next.StringInput)
	assert.Equal(t, "a", next.Alias)
	assert.Equal(t, "env=prod", next.Labels)
	assert.Equal(t, q.Points, next.Points)
	assert.Equal(t, "typed by hand", q.StringInput)

	next = ChangeScenario(next, "random_walk", testScenarios)
	assert.Equal(t, "", next.StringInput)

	next = ChangeScenario(q, "unknown", testScenarios)
	assert.Equal(t, "", next.StringInput)
}

func TestIsLabelsFieldVisible(t *testing.T) {
	for _, id := range []string{"random_walk", "predictable_pulse", "predictable_csv_wave"} {
		assert.True(t, IsLabelsFieldVisible(id), id)
	}
	for _, id := range []string{"", "manual_entry", "csv_metric_values", "Random_Walk", "random_walk "} {
		assert.False(t, IsLabelsFieldVisible(id), id)
	}
}

func TestPointListVisibility(t *testing.T) {
	assert.True(t, IsPointListVisible(types.Scenario{ID: types.ManualEntryScenarioID}, true))
	assert.False(t, IsPointListVisible(types.Scenario{ID: types.ManualEntryScenarioID}, false))
	assert.False(t, IsPointListVisible(types.Scenario{ID: "random_walk"}, true))
}
