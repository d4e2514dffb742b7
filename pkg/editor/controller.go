package editor

import (
	"context"
	"fmt"
	"time"

	"github.com/vjranagit/queryeditor/pkg/types"
	"go.uber.org/zap"
)

// ScenarioLister supplies the catalog of available scenarios
type ScenarioLister interface {
	ListScenarios(ctx context.Context) ([]types.Scenario, error)
}

// ChangeFunc receives the complete query after every successful edit
type ChangeFunc func(types.Query)

// Field names a free-form text field of the query
type Field string

const (
	FieldStringInput Field = "stringInput"
	FieldAlias       Field = "alias"
	FieldLabels      Field = "labels"
)

// FetchState is the lifecycle of the scenario catalog request
type FetchState int

const (
	StateIdle FetchState = iota
	StatePending
	StateReady
	StateFailed
)

func (s FetchState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("FetchState(%d)", int(s))
}

// ScenarioOption is one entry of the scenario selector
type ScenarioOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// View is everything a renderer needs to draw the editor
type View struct {
	Query    types.Query      `json:"query"`
	Options  []ScenarioOption `json:"options"`
	Selected *ScenarioOption  `json:"selected,omitempty"`

	ShowStringInput bool          `json:"showStringInput"`
	ShowLabels      bool          `json:"showLabels"`
	ShowPoints      bool          `json:"showPoints"`
	Points          []PointOption `json:"points,omitempty"`
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the controller logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock sets the source of "now" for relative time expressions
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLocation sets the time zone used to display points
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// Controller edits one query for the lifetime of an editor instance.
//
// All methods must be called from the dispatcher's event goroutine; the
// controller itself does no locking. Only the catalog request runs elsewhere.
type Controller struct {
	dispatcher Dispatcher
	lister     ScenarioLister
	onChange   ChangeFunc
	logger     *zap.Logger
	now        func() time.Time
	loc        *time.Location

	query     types.Query
	scenarios []types.Scenario
	state     FetchState
	fetchErr  error
	cancel    context.CancelFunc
	closed    bool
}

// NewController creates an editor for query. Nothing is fetched until Mount.
func NewController(dispatcher Dispatcher, query types.Query, lister ScenarioLister, onChange ChangeFunc, opts ...Option) *Controller {
	c := &Controller{
		dispatcher: dispatcher,
		lister:     lister,
		onChange:   onChange,
		logger:     zap.NewNop(),
		now:        time.Now,
		loc:        time.UTC,
		query:      query.Clone(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount issues the scenario catalog request. Only the first call has an
// effect; the result is delivered through the dispatcher.
func (c *Controller) Mount(ctx context.Context) {
	if c.closed || c.state != StateIdle {
		return
	}
	c.state = StatePending

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	go func() {
		scenarios, err := c.lister.ListScenarios(ctx)
		if !c.dispatcher.Post(func() { c.complete(scenarios, err) }) {
			c.logger.Debug("Dropped scenario fetch result, dispatcher stopped")
		}
	}()
}

func (c *Controller) complete(scenarios []types.Scenario, err error) {
	if c.closed {
		c.logger.Debug("Discarded scenario fetch result for closed editor")
		return
	}
	c.cancel()

	if err != nil {
		c.state = StateFailed
		c.fetchErr = fmt.Errorf("%w: %w", ErrScenarioFetchFailed, err)
		c.logger.Warn("Scenario fetch failed, continuing without scenarios", zap.Error(err))
		return
	}

	c.state = StateReady
	c.scenarios = scenarios
	c.logger.Debug("Scenario catalog loaded", zap.Int("scenarios", len(scenarios)))
}

// Close tears the editor down. An outstanding fetch is cancelled and its
// result discarded.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
}

// State returns the catalog request state
func (c *Controller) State() FetchState {
	return c.state
}

// FetchErr returns the catalog failure, wrapping ErrScenarioFetchFailed
func (c *Controller) FetchErr() error {
	return c.fetchErr
}

// Scenarios returns the loaded catalog
func (c *Controller) Scenarios() []types.Scenario {
	return append([]types.Scenario(nil), c.scenarios...)
}

// Effective reconciles the current query against the loaded catalog
func (c *Controller) Effective() EffectiveQuery {
	return Reconcile(c.query, c.scenarios)
}

// View returns what to render. ok is false until the catalog request settles,
// in which case nothing should be drawn.
func (c *Controller) View() (View, bool) {
	if c.state == StateIdle || c.state == StatePending {
		return View{}, false
	}

	eff := c.Effective()
	v := View{
		Query:           eff.Query,
		Options:         make([]ScenarioOption, len(c.scenarios)),
		ShowStringInput: eff.StringInputVisible,
		ShowLabels:      eff.LabelsVisible,
		ShowPoints:      eff.PointsVisible,
	}
	for i, s := range c.scenarios {
		v.Options[i] = ScenarioOption{Label: s.Name, Value: s.ID}
	}
	if s, ok := eff.Current(); ok {
		v.Selected = &ScenarioOption{Label: s.Name, Value: s.ID}
	}
	if eff.PointsVisible {
		v.Points = PointOptions(eff.Query.Points, c.loc)
	}
	return v, true
}

// SelectScenario switches scenario and emits the updated query. An empty id
// selects the default scenario.
func (c *Controller) SelectScenario(id string) error {
	if err := c.editable(); err != nil {
		return err
	}
	id = ResolveScenarioID(types.Query{ScenarioID: id})

	prev := ResolveScenarioID(c.query)
	c.emit(ChangeScenario(c.query, id, c.scenarios))
	c.logger.Debug("Scenario changed", zap.String("from", prev), zap.String("to", id))
	return nil
}

// SetField stores value verbatim in a text field and emits the updated query
func (c *Controller) SetField(field Field, value string) error {
	if err := c.editable(); err != nil {
		return err
	}

	next := c.Effective().Query
	switch field {
	case FieldStringInput:
		next.StringInput = value
	case FieldAlias:
		next.Alias = value
	case FieldLabels:
		next.Labels = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	c.emit(next)
	return nil
}

// AddPoint inserts a manual point at the time described by timeExpr
func (c *Controller) AddPoint(value float64, timeExpr string) error {
	eff, err := c.pointList()
	if err != nil {
		return err
	}

	points, err := AddPointExpr(eff.Query.Points, value, timeExpr, c.now())
	if err != nil {
		c.logger.Debug("Rejected point", zap.String("time", timeExpr), zap.Error(err))
		return err
	}

	next := eff.Query
	next.Points = points
	c.emit(next)
	return nil
}

// DeletePoint removes the manual point at index
func (c *Controller) DeletePoint(index int) error {
	eff, err := c.pointList()
	if err != nil {
		return err
	}

	points, err := DeletePoint(eff.Query.Points, index)
	if err != nil {
		c.logger.Debug("Rejected point deletion", zap.Int("index", index), zap.Error(err))
		return err
	}

	next := eff.Query
	next.Points = points
	c.emit(next)
	return nil
}

// Query returns a copy of the query as last emitted
func (c *Controller) Query() types.Query {
	return c.query.Clone()
}

func (c *Controller) editable() error {
	switch {
	case c.closed:
		return ErrClosed
	case c.state == StateIdle || c.state == StatePending:
		return ErrPending
	}
	return nil
}

func (c *Controller) pointList() (EffectiveQuery, error) {
	if err := c.editable(); err != nil {
		return EffectiveQuery{}, err
	}
	eff := c.Effective()
	if !eff.PointsVisible {
		return EffectiveQuery{}, ErrPointListUnavailable
	}
	return eff, nil
}

func (c *Controller) emit(next types.Query) {
	c.query = next
	if c.onChange != nil {
		c.onChange(next.Clone())
	}
}
