package config

// Preset is a named parameter set for one exercise. Zero Dt or TMax keep
// the exercise default.
type Preset struct {
	Name        string
	Description string
	Params      map[string]float64
	Dt          float64
	TMax        float64
}

var Presets = map[string][]Preset{
	"verhulst": {
		{Name: "normal-growth", Description: "Population grows up to the carrying capacity",
			Params: map[string]float64{"P0": 10, "r": 0.5, "K": 100}, TMax: 20, Dt: 0.1},
		{Name: "overpopulation", Description: "Initial population above K decays towards it",
			Params: map[string]float64{"P0": 150, "r": 0.5, "K": 100}, TMax: 20, Dt: 0.1},
		{Name: "fast-growth", Description: "High growth rate",
			Params: map[string]float64{"P0": 5, "r": 1.2, "K": 100}, TMax: 10, Dt: 0.1},
	},
	"newton-cooling": {
		{Name: "hot-coffee", Description: "Typical cooling of a drink",
			Params: map[string]float64{"T0": 100, "Tamb": 20, "k": 0.1}, TMax: 50, Dt: 0.5},
		{Name: "fast-cooling", Description: "High heat transfer rate",
			Params: map[string]float64{"T0": 100, "Tamb": 20, "k": 0.3}, TMax: 30, Dt: 0.5},
		{Name: "warming", Description: "Cold object in a warm room",
			Params: map[string]float64{"T0": 0, "Tamb": 25, "k": 0.15}, TMax: 40, Dt: 0.5},
	},
	"bifurcation-1d": {
		{Name: "before", Description: "Two fixed points, one stable and one unstable",
			Params: map[string]float64{"rMin": -2, "rMax": 2, "rSteps": 50, "x0": 0}, TMax: 10},
		{Name: "critical", Description: "At the saddle-node point",
			Params: map[string]float64{"rMin": -1, "rMax": 1, "rSteps": 40, "x0": 0.5}, TMax: 10},
		{Name: "after", Description: "No fixed points, the state escapes",
			Params: map[string]float64{"rMin": -0.5, "rMax": 2.5, "rSteps": 50, "x0": 0}, TMax: 5},
		{Name: "wide", Description: "Full view of the bifurcation",
			Params: map[string]float64{"rMin": -3, "rMax": 3, "rSteps": 100, "x0": 0}, TMax: 15},
		{Name: "zoom", Description: "Detail around r = 0",
			Params: map[string]float64{"rMin": -0.5, "rMax": 0.5, "rSteps": 50, "x0": 0.1}, TMax: 20},
	},
	"linear-2d": {
		{Name: "stable-node", Description: "Two negative real eigenvalues",
			Params: map[string]float64{"a": -1, "b": 0, "c": 0, "d": -2, "x0": 2, "y0": 1}, TMax: 10},
		{Name: "unstable-node", Description: "Two positive real eigenvalues",
			Params: map[string]float64{"a": 1, "b": 0, "c": 0, "d": 2, "x0": 0.5, "y0": 0.5}, TMax: 5},
		{Name: "saddle", Description: "Real eigenvalues of opposite sign",
			Params: map[string]float64{"a": 1, "b": 0, "c": 0, "d": -1, "x0": 1, "y0": 1}, TMax: 5},
		{Name: "stable-spiral", Description: "Complex eigenvalues with negative real part",
			Params: map[string]float64{"a": -0.5, "b": 2, "c": -2, "d": -0.5, "x0": 2, "y0": 0}, TMax: 15},
		{Name: "unstable-spiral", Description: "Complex eigenvalues with positive real part",
			Params: map[string]float64{"a": 0.2, "b": 2, "c": -2, "d": 0.2, "x0": 0.5, "y0": 0}, TMax: 15},
		{Name: "center", Description: "Purely imaginary eigenvalues, closed orbits",
			Params: map[string]float64{"a": 0, "b": 1, "c": -1, "d": 0, "x0": 1, "y0": 0}, TMax: 20},
		{Name: "slow-node", Description: "Slow approach to the origin",
			Params: map[string]float64{"a": -0.2, "b": 0, "c": 0, "d": -0.3, "x0": 3, "y0": 2}, TMax: 30},
		{Name: "fast-spiral", Description: "Fast oscillations that decay",
			Params: map[string]float64{"a": -1, "b": 5, "c": -5, "d": -1, "x0": 1, "y0": 1}, TMax: 10},
		{Name: "sharp-saddle", Description: "Saddle with well separated manifolds",
			Params: map[string]float64{"a": 2, "b": 0, "c": 0, "d": -1, "x0": 0.5, "y0": 1}, TMax: 3},
		{Name: "degenerate-node", Description: "Repeated eigenvalue",
			Params: map[string]float64{"a": -1, "b": 1, "c": 0, "d": -1, "x0": 1, "y0": 1}, TMax: 10},
	},
	"romeo-juliet": {
		{Name: "cautious", Description: "Both lovers are cautious and the feelings fade",
			Params: map[string]float64{"a": -1, "b": 1, "c": -2, "d": 0.5, "R0": 1, "J0": 0}, TMax: 20},
		{Name: "explosive", Description: "They encourage each other without bound",
			Params: map[string]float64{"a": 0.5, "b": 1, "c": 1, "d": 0.5, "R0": 1, "J0": 1}, TMax: 10},
		{Name: "love-hate", Description: "Periodic cycles of love and hate",
			Params: map[string]float64{"a": 0, "b": 1, "c": -1, "d": 0, "R0": 1, "J0": 0}, TMax: 25},
		{Name: "eager-romeo", Description: "Romeo feeds his own love, Juliet pushes back",
			Params: map[string]float64{"a": 1, "b": 2, "c": -1, "d": -0.5, "R0": 0.5, "J0": 0.5}, TMax: 15},
		{Name: "fading-spiral", Description: "Oscillations that settle into indifference",
			Params: map[string]float64{"a": -0.3, "b": 2, "c": -2, "d": -0.3, "R0": 2, "J0": 0.5}, TMax: 30},
		{Name: "growing-spiral", Description: "Oscillations that grow",
			Params: map[string]float64{"a": 0.1, "b": 1.5, "c": -1.5, "d": 0.1, "R0": 0.3, "J0": 0.3}, TMax: 40},
		{Name: "unstable", Description: "One attracts while the other repels",
			Params: map[string]float64{"a": 1, "b": 1, "c": -1, "d": -1, "R0": 0.5, "J0": 1}, TMax: 10},
	},
	"lotka-volterra": {
		{Name: "classic", Description: "Typical predator-prey cycles",
			Params: map[string]float64{"alpha": 1.5, "beta": 1, "delta": 0.75, "gamma": 1, "x0": 2, "y0": 1}, TMax: 30},
		{Name: "efficient-predators", Description: "High conversion efficiency",
			Params: map[string]float64{"alpha": 1, "beta": 1, "delta": 1.5, "gamma": 0.5, "x0": 1.5, "y0": 1.5}, TMax: 40},
		{Name: "fast-prey", Description: "Prey reproduce very quickly",
			Params: map[string]float64{"alpha": 2.5, "beta": 1, "delta": 0.5, "gamma": 1, "x0": 1, "y0": 1}, TMax: 25},
		{Name: "near-equilibrium", Description: "Start close to the coexistence point",
			Params: map[string]float64{"alpha": 1, "beta": 1, "delta": 1, "gamma": 1, "x0": 1.05, "y0": 1.05}, TMax: 35},
		{Name: "large-cycles", Description: "Large amplitude oscillations",
			Params: map[string]float64{"alpha": 2, "beta": 0.5, "delta": 0.5, "gamma": 1.5, "x0": 4, "y0": 0.5}, TMax: 50},
		{Name: "heavy-predation", Description: "High predation rate",
			Params: map[string]float64{"alpha": 1.2, "beta": 2, "delta": 1, "gamma": 0.8, "x0": 1.5, "y0": 1}, TMax: 30},
		{Name: "balanced", Description: "Balanced parameters, smooth cycles",
			Params: map[string]float64{"alpha": 1, "beta": 1, "delta": 1, "gamma": 1, "x0": 2, "y0": 0.5}, TMax: 40},
	},
	"energy-conservation": {
		{Name: "small-swing", Description: "Low energy oscillation",
			Params: map[string]float64{"x0": 0.5, "y0": 0}, TMax: 20},
		{Name: "large-swing", Description: "Wide oscillation",
			Params: map[string]float64{"x0": 2.5, "y0": 0}, TMax: 20},
		{Name: "rotation", Description: "Enough energy to go over the top",
			Params: map[string]float64{"x0": 0, "y0": 3}, TMax: 20},
		{Name: "separatrix", Description: "Critical energy between oscillation and rotation",
			Params: map[string]float64{"x0": 3.14, "y0": 0}, TMax: 30},
	},
	"hopf-bifurcation": {
		{Name: "stable-focus", Description: "Stable fixed point, no limit cycle",
			Params: map[string]float64{"mu": -0.5, "omega": 1, "r0": 0.5, "theta0": 0}, TMax: 50},
		{Name: "critical", Description: "At the Hopf point",
			Params: map[string]float64{"mu": 0, "omega": 1, "r0": 0.5, "theta0": 0}, TMax: 50},
		{Name: "limit-cycle", Description: "A stable limit cycle appears",
			Params: map[string]float64{"mu": 0.5, "omega": 1, "r0": 0.5, "theta0": 0}, TMax: 50},
		{Name: "strong", Description: "Large stable limit cycle",
			Params: map[string]float64{"mu": 1.5, "omega": 1, "r0": 0.2, "theta0": 0}, TMax: 30},
		{Name: "deep-stable", Description: "Fast convergence to the focus",
			Params: map[string]float64{"mu": -1.5, "omega": 1, "r0": 1.5, "theta0": 0}, TMax: 30},
		{Name: "high-frequency", Description: "Fast rotation on the limit cycle",
			Params: map[string]float64{"mu": 0.3, "omega": 3, "r0": 0.8, "theta0": 0}, TMax: 40},
		{Name: "far-start", Description: "Start far from the origin",
			Params: map[string]float64{"mu": 0.5, "omega": 1, "r0": 2, "theta0": 1.5}, TMax: 50},
	},
}

func GetPreset(exercise, name string) *Preset {
	for i, p := range Presets[exercise] {
		if p.Name == name {
			return &Presets[exercise][i]
		}
	}
	return nil
}

// ListPresets returns preset names in menu order, or nil for an exercise
// without presets.
func ListPresets(exercise string) []string {
	ps, ok := Presets[exercise]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(ps))
	for _, p := range ps {
		names = append(names, p.Name)
	}
	return names
}
