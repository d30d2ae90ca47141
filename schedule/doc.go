// Package schedule provides the timers behind particle.Scheduler.
//
// Manual runs callbacks only when told to, which lets tests step an
// animation tick by tick. Tea turns callbacks into Bubble Tea tick messages so
// every callback runs inside the program's Update loop.
package schedule
