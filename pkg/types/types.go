package types

import (
	"encoding/json"
	"fmt"
)

const (
	// DefaultScenarioID is used whenever a query does not name a scenario
	DefaultScenarioID = "random_walk"

	// ManualEntryScenarioID is the scenario whose series is entered point by point
	ManualEntryScenarioID = "manual_entry"
)

// Point represents a single manually entered sample
type Point struct {
	Value     float64
	Timestamp int64 // Unix milliseconds
}

// MarshalJSON encodes the point as [value, timestamp]
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Value, p.Timestamp})
}

// UnmarshalJSON decodes a [value, timestamp] pair
func (p *Point) UnmarshalJSON(data []byte) error {
	var raw []json.Number
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("point must be a [value, timestamp] array: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("point must have 2 elements, got %d", len(raw))
	}

	value, err := raw[0].Float64()
	if err != nil {
		return fmt.Errorf("invalid point value: %w", err)
	}
	ts, err := raw[1].Int64()
	if err != nil {
		return fmt.Errorf("invalid point timestamp: %w", err)
	}

	p.Value = value
	p.Timestamp = ts
	return nil
}

// Query is the stored synthetic-data query edited by the editor
type Query struct {
	RefID       string  `json:"refId,omitempty"`
	ScenarioID  string  `json:"scenarioId,omitempty"`
	StringInput string  `json:"stringInput,omitempty"`
	Alias       string  `json:"alias,omitempty"`
	Labels      string  `json:"labels,omitempty"`
	Points      []Point `json:"points,omitempty"`
}

// Clone returns a copy that shares no memory with q
func (q Query) Clone() Query {
	if q.Points != nil {
		q.Points = append([]Point(nil), q.Points...)
	}
	return q
}

// Scenario describes one synthetic-data generation mode
type Scenario struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	StringInput string `json:"stringInput,omitempty"`
	Description string `json:"description,omitempty"`
}
