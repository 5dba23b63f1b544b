// Package tui is the interactive dashboard. Lever edits are applied to the
// point estimate at once and handed to the slot scheduler as debounced Monte
// Carlo requests; results come back through each slot's update channel.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/runwaysim/internal/calculation"
	"github.com/rgehrsitz/runwaysim/internal/domain"
	"github.com/rgehrsitz/runwaysim/internal/scheduler"
	"github.com/rgehrsitz/runwaysim/internal/scoring"
)

// DefaultStep is how far one ←/→ press moves a lever
const DefaultStep = 5.0

// Options configures the dashboard model
type Options struct {
	Engine *calculation.MonteCarloEngine
	Slots  *scheduler.Workspace
	Logger calculation.Logger
	Step   float64
	Active scheduler.SlotID // slot that starts focused, A when empty
}

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Tab      key.Binding
	Scenario key.Binding
	Ramp     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "prev lever")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "next lever")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "decrease")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "increase")),
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch slot")),
		Scenario: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scenario")),
		Ramp:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "ramp")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// slotState is everything the dashboard shows for one slot
type slotState struct {
	plan      domain.ScenarioPlan
	effective domain.LeverState
	metrics   domain.MetricState
	delta     domain.DeltaMetrics
	quality   domain.QualityScore
	risk      domain.StructuralRiskIndex
	gap       domain.ObjectiveGap

	latest  *domain.MonteCarloResult
	pending bool // a run for the current levers has been requested but not seen
}

// Model represents the entire application state
type Model struct {
	ws     *domain.Workspace
	cfg    domain.SimulationConfig
	engine *calculation.MonteCarloEngine
	slots  *scheduler.Workspace
	logger calculation.Logger
	keys   keyMap
	step   float64

	active   scheduler.SlotID
	selected domain.LeverID
	states   map[scheduler.SlotID]*slotState

	// Terminal dimensions
	width  int
	height int

	err error
}

// NewModel creates the dashboard over ws. Slot A starts on the first plan
// and slot B on the second, or on a copy of the first.
func NewModel(ws *domain.Workspace, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = calculation.NopLogger{}
	}
	if opts.Step <= 0 {
		opts.Step = DefaultStep
	}
	if opts.Active != scheduler.SlotB {
		opts.Active = scheduler.SlotA
	}

	m := Model{
		ws:     ws,
		cfg:    ws.SimulationConfig(),
		engine: opts.Engine,
		slots:  opts.Slots,
		logger: opts.Logger,
		keys:   defaultKeyMap(),
		step:   opts.Step,
		active: opts.Active,
		states: make(map[scheduler.SlotID]*slotState, 2),
		width:  100,
		height: 30,
	}

	plans := ws.Scenarios
	if len(plans) == 0 {
		plans = domain.DefaultWorkspace().Scenarios
	}
	planB := plans[0]
	if len(plans) > 1 {
		planB = plans[1]
	}
	m.states[scheduler.SlotA] = &slotState{plan: plans[0], pending: true}
	m.states[scheduler.SlotB] = &slotState{plan: planB, pending: true}
	m.recompute(scheduler.SlotA)
	m.recompute(scheduler.SlotB)
	return m
}

// Init requests the first run for both slots and starts listening
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	for _, id := range []scheduler.SlotID{scheduler.SlotA, scheduler.SlotB} {
		slot, st := m.slots.Slot(id), m.states[id]
		levers, cfg := st.effective, m.cfg
		cmds = append(cmds,
			func() tea.Msg {
				slot.Request(levers, cfg)
				return nil
			},
			waitForResult(id, slot))
	}
	return tea.Batch(cmds...)
}

// recompute refreshes the point estimate and scores for a slot
func (m Model) recompute(id scheduler.SlotID) {
	st := m.states[id]
	st.effective = calculation.ComputeEffective(m.ws.BaselineLevers, st.plan.Levers, st.plan.Ramp, m.cfg.TimeHorizonMonths)
	st.metrics = calculation.Calculate(m.ws.Baseline, st.effective, st.plan.Scenario)
	m.rescore(st)
}

// rescore folds the latest simulation into the delta and scores
func (m Model) rescore(st *slotState) {
	st.delta = calculation.ComputeDelta(calculation.DeltaInput{
		Baseline:       m.ws.Baseline,
		BaselineLevers: m.ws.BaselineLevers,
		Effective:      st.effective,
		Scenario:       st.plan.Scenario,
		Config:         m.cfg,
		Simulation:     st.latest,
	})
	st.quality = scoring.Quality(domain.QualityInputsFromMetrics(st.metrics))
	st.risk = scoring.StructuralRisk(m.engine.Model(st.effective).Elasticity())

	judged := st.metrics
	if st.delta.SurvivalFromSimulation {
		judged.Survival = st.delta.Survival.Scenario
	}
	st.gap = scoring.ObjectiveGap(m.ws.Objectives, judged)
}

// request schedules a debounced run for the slot's current levers
func (m Model) request(id scheduler.SlotID) {
	st := m.states[id]
	st.pending = true
	m.slots.Slot(id).Request(st.effective, m.cfg)
}

// Active returns the slot being edited
func (m Model) Active() scheduler.SlotID { return m.active }

// Selected returns the lever under the cursor
func (m Model) Selected() domain.LeverID { return m.selected }

// Plan returns the slot's current plan, including unsaved edits
func (m Model) Plan(id scheduler.SlotID) domain.ScenarioPlan { return m.states[id].plan }

// Metrics returns the slot's point estimate
func (m Model) Metrics(id scheduler.SlotID) domain.MetricState { return m.states[id].metrics }

// Delta returns the slot's KPI deltas against the baseline
func (m Model) Delta(id scheduler.SlotID) domain.DeltaMetrics { return m.states[id].delta }

// Latest returns the last simulation shown for the slot
func (m Model) Latest(id scheduler.SlotID) *domain.MonteCarloResult { return m.states[id].latest }

// Pending reports whether a run for the slot's current levers is outstanding
func (m Model) Pending(id scheduler.SlotID) bool { return m.states[id].pending }
