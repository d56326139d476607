// Package analysis summarises per-tick series from a run.
//
//   - [PowerSpectrum]: magnitude spectrum of a mean-removed series
//   - [DominantPeriod]: strongest oscillation period, in ticks
//   - [Summarize]: mean, spread and range of a series
//
// Population and kinetic energy series of an orbiting shell oscillate as
// eccentric orbits bunch and spread; the spectrum makes that visible:
//
//	spec := analysis.PowerSpectrum(kinetic)
//	period := analysis.DominantPeriod(kinetic)
package analysis
