// Package emission resolves confetti settings into bursts.
//
// Settings are merged shallowly from Partial updates, resolved against a
// fixed origin table and clamped into an Event, which is the parameter set a
// renderer (terminal or canvas-confetti) needs to draw one burst.
package emission
