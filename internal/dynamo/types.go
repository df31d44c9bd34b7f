package dynamo

import (
	"fmt"
	"math"
	"sort"
)

// DivergenceBound is the largest coordinate magnitude a run may produce.
const DivergenceBound = 1e6

// MaxSteps bounds tmax/dt for a single run.
const MaxSteps = 1e8

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// MaxAbs returns the infinity norm of s.
func (s State) MaxAbs() float64 {
	m := 0.0
	for _, v := range s {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Params is the untyped parameter mapping received at the engine boundary.
// Families decode it into their own typed records.
type Params map[string]float64

func (p Params) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("%w: no parameters given", ErrInvalidConfiguration)
	}
	for _, name := range p.Names() {
		v := p[name]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: parameter %q is not finite (%v)", ErrInvalidConfiguration, name, v)
		}
	}
	return nil
}

func (p Params) Get(name string) (float64, error) {
	v, ok := p[name]
	if !ok {
		return 0, fmt.Errorf("%w: missing parameter %q", ErrInvalidConfiguration, name)
	}
	return v, nil
}

func (p Params) GetOr(name string, def float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

// Merge returns a copy of p with every key of over applied on top.
func (p Params) Merge(over Params) Params {
	out := make(Params, len(p)+len(over))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Field is a vector field: it maps (state, time) to the state derivative.
// Parameters are bound by the family that builds the field.
type Field func(x State, t float64) State

// Matrix2 is a row-major 2x2 matrix [[A, B], [C, D]].
type Matrix2 struct {
	A, B, C, D float64
}

func (m Matrix2) Trace() float64 { return m.A + m.D }
func (m Matrix2) Det() float64   { return m.A*m.D - m.B*m.C }

func (m Matrix2) Apply(x State) State {
	return State{m.A*x[0] + m.B*x[1], m.C*x[0] + m.D*x[1]}
}

// System is one ODE topic expressed as data.
type System struct {
	Name string
	Dim  int

	Field Field

	// Jacobian is optional; nil means callers fall back to numeric
	// differentiation.
	Jacobian func(x State) Matrix2

	// Invariant is a conserved quantity of the flow, if the family has one.
	Invariant func(x State) float64

	// Canonical marks a 2D Hamiltonian field with state (position,
	// momentum), the only shape the symplectic integrator accepts.
	Canonical bool

	// Wrap maps a state onto its representative, such as an angle folded
	// into [0, 2π). It runs after every step, before the divergence guard.
	Wrap func(x State) State

	// Halt reports a terminal event. A run stops before appending the
	// first state for which Halt is true.
	Halt func(x State) bool
}

func (s System) Validate() error {
	if s.Field == nil {
		return fmt.Errorf("%w: system %q has no vector field", ErrInvalidConfiguration, s.Name)
	}
	if s.Dim < 1 || s.Dim > 2 {
		return fmt.Errorf("%w: system %q has dimension %d, want 1 or 2", ErrInvalidConfiguration, s.Name, s.Dim)
	}
	return nil
}

type Config struct {
	Dt   float64
	TMax float64
}

func DefaultConfig() Config {
	return Config{
		Dt:   0.01,
		TMax: 10.0,
	}
}

func (c Config) Validate() error {
	if math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) || c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive and finite, got %v", ErrInvalidConfiguration, c.Dt)
	}
	if math.IsNaN(c.TMax) || math.IsInf(c.TMax, 0) || c.TMax <= 0 {
		return fmt.Errorf("%w: tmax must be positive and finite, got %v", ErrInvalidConfiguration, c.TMax)
	}
	if n := c.TMax / c.Dt; math.IsInf(n, 0) || n > MaxSteps {
		return fmt.Errorf("%w: tmax/dt = %v exceeds %v steps", ErrInvalidConfiguration, n, float64(MaxSteps))
	}
	return nil
}

// Steps is the number of fixed steps taken while t <= TMax.
func (c Config) Steps() int {
	return int(math.Floor(c.TMax/c.Dt + 1e-9))
}

type Trajectory struct {
	Times  []float64
	States []State
	// Halted is set when the system's Halt predicate ended the run.
	Halted bool
}

func (tr *Trajectory) Len() int { return len(tr.Times) }

func (tr *Trajectory) Last() (float64, State) {
	n := len(tr.Times)
	if n == 0 {
		return 0, nil
	}
	return tr.Times[n-1], tr.States[n-1]
}

// Component extracts coordinate i of every sample.
func (tr *Trajectory) Component(i int) []float64 {
	out := make([]float64, len(tr.States))
	for k, s := range tr.States {
		if i < len(s) {
			out[k] = s[i]
		}
	}
	return out
}

type StabilityClass string

const (
	StableNode     StabilityClass = "stable-node"
	UnstableNode   StabilityClass = "unstable-node"
	Saddle         StabilityClass = "saddle"
	StableSpiral   StabilityClass = "stable-spiral"
	UnstableSpiral StabilityClass = "unstable-spiral"
	Center         StabilityClass = "center"
	DegenerateNode StabilityClass = "degenerate-node"
	NonIsolated    StabilityClass = "non-isolated"
	// NonHyperbolic is the 1D report for f'(x*) = 0.
	NonHyperbolic StabilityClass = "non-hyperbolic"
)

// Eigenvalues of a 2x2 linearization. When Complex is set the pair is
// Re ± i·Im; otherwise L1 >= L2 are real.
type Eigenvalues struct {
	Complex bool    `json:"complex"`
	L1      float64 `json:"l1"`
	L2      float64 `json:"l2"`
	Re      float64 `json:"re"`
	Im      float64 `json:"im"`
}

func (e Eigenvalues) Values() [2]complex128 {
	if e.Complex {
		return [2]complex128{complex(e.Re, e.Im), complex(e.Re, -e.Im)}
	}
	return [2]complex128{complex(e.L1, 0), complex(e.L2, 0)}
}

// AngularFrequency is the rotation rate of a complex pair, zero otherwise.
func (e Eigenvalues) AngularFrequency() float64 {
	if !e.Complex {
		return 0
	}
	return e.Im
}

func (e Eigenvalues) String() string {
	if e.Complex {
		return fmt.Sprintf("λ = %.4f ± %.4fi", e.Re, e.Im)
	}
	return fmt.Sprintf("λ₁ = %.4f, λ₂ = %.4f", e.L1, e.L2)
}

type EquilibriumPoint struct {
	State State          `json:"state"`
	Class StabilityClass `json:"class"`
	// Eigen is set for 2D points; Derivative carries f'(x*) for 1D points.
	Eigen      *Eigenvalues `json:"eigen,omitempty"`
	Derivative float64      `json:"derivative,omitempty"`
}

// EquilibriumSet describes where a linear field vanishes. Isolated sets
// hold exactly the origin; a singular matrix yields a line along
// Direction, or the whole plane when Direction is nil.
type EquilibriumSet struct {
	Isolated  bool
	Point     State
	Direction State
}

// Diagram is a bifurcation diagram. The three slices are index aligned;
// missing equilibria are recorded as Undefined.
type Diagram struct {
	Params   []float64
	Stable   []float64
	Unstable []float64
	// Equilibria holds every classified equilibrium per sample when the
	// scan ran through the solver. Nil for closed-form scans.
	Equilibria [][]EquilibriumPoint `json:",omitempty"`
}

func (d *Diagram) Len() int { return len(d.Params) }

// Undefined is the sentinel for "no real equilibrium at this sample".
func Undefined() float64 { return math.NaN() }

func IsUndefined(v float64) bool { return math.IsNaN(v) }

type ConservedSeries struct {
	Initial            float64
	Values             []float64
	Drift              []float64
	MaxDrift           float64
	FinalRelativeDrift float64
}

// Step is one textual record shown next to the numbers.
type Step struct {
	Title        string `json:"title"`
	Formula      string `json:"formula"`
	Substitution string `json:"substitution,omitempty"`
	Result       string `json:"result"`
	Explanation  string `json:"explanation,omitempty"`
}

type SimulationResult struct {
	ID          string
	Exercise    string
	Steps       []Step
	Trajectory  *Trajectory
	Bifurcation *Diagram
	Conserved   *ConservedSeries
	Equilibria  []EquilibriumPoint
	Info        map[string]float64
}

func (r *SimulationResult) AddStep(s Step) {
	r.Steps = append(r.Steps, s)
}

func (r *SimulationResult) SetInfo(name string, v float64) {
	if r.Info == nil {
		r.Info = make(map[string]float64)
	}
	r.Info[name] = v
}
