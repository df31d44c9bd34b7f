package experiment

const (
	CategoryOneDim      = "1D dynamical systems"
	CategoryLinear      = "2D linear systems"
	CategoryNonlinear   = "Nonlinear systems"
	CategoryParametrize = "Parametrization"
)

func builtin() []Exercise {
	return []Exercise{
		verhulst(),
		newtonCooling(),
		bifurcation1D(),
		linear2D(),
		romeoJuliet(),
		lotkaVolterra(),
		energyConservation(),
		hopfBifurcation(),
		combatModel(),
		parametrizedSolution(),
	}
}
