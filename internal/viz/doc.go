// Package viz renders orbital particle populations in the terminal.
//
// Particles are projected through an orbiting [Camera] onto a braille
// [Canvas], one coloured disc per instance, with the central body drawn as
// a wireframe. [Model] is the Bubble Tea program behind `orbitsim live`.
//
// Keys: space pauses, n or . steps once while paused, r reseeds the
// population, p toggles replenishment, x/y/z rotate (shifted keys rotate
// back), + and - zoom, f refits the view, t cycles [Themes], g toggles GIF
// capture and ? lists everything.
//
// Captured frames are written to [GIFPath] when capture stops or the
// program quits.
package viz
