// Package viz renders simulation results in the terminal.
//
//   - [Render]: step records, numeric summary and plots for one result
//   - [Canvas]: Braille-based pixel canvas used for phase portraits
//   - [SparklineChart]: one-line drift overview
//
// Time series go through asciigraph; styling uses lipgloss.
package viz
