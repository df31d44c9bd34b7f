// Package equilibrium locates the points where a vector field vanishes.
//
// 1D fields are solved either from a caller-supplied closed form or by
// scanning a bracket for sign changes and bisecting each one. 2D linear
// fields are handled analytically, including the singular case where the
// equilibria form a line or fill the plane.
package equilibrium
