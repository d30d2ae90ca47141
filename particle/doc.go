// Package particle implements confetti kinematics and the in-buffer animator.
//
// A particle advances once per tick: position += velocity, then vertical
// velocity += gravity. Particles never interact, so every operation here is a
// map or a filter over a slice.
//
// The Animator paints particles as decorations on a text Surface and
// reschedules itself through an injected Scheduler until every particle has
// fallen past the last line.
package particle
