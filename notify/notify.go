// Package notify carries user-visible messages from the add-on to its host.
package notify

import (
	"fmt"
	"log"
)

type Level uint8

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return "info"
}

// Notifier shows a message to the user. Implementations must not block on
// user interaction.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// Func adapts a function to Notifier.
type Func func(level Level, msg string)

func (f Func) Info(msg string)  { f(LevelInfo, msg) }
func (f Func) Warn(msg string)  { f(LevelWarn, msg) }
func (f Func) Error(msg string) { f(LevelError, msg) }

// Discard drops every message.
var Discard Notifier = Func(func(Level, string) {})

// Log writes messages to l with their level.
func Log(l *log.Logger) Notifier {
	return Func(func(level Level, msg string) {
		l.Printf("%s: %s", level, msg)
	})
}

// Multi fans a message out to every notifier in order.
func Multi(ns ...Notifier) Notifier {
	return Func(func(level Level, msg string) {
		for _, n := range ns {
			Send(n, level, msg)
		}
	})
}

// Send dispatches msg to the method of n that matches level.
func Send(n Notifier, level Level, msg string) {
	switch level {
	case LevelWarn:
		n.Warn(msg)
	case LevelError:
		n.Error(msg)
	default:
		n.Info(msg)
	}
}

// Entry is one recorded message.
type Entry struct {
	Level Level
	Msg   string
}

func (e Entry) String() string { return fmt.Sprintf("%s: %s", e.Level, e.Msg) }

// Recorder keeps every message it receives.
type Recorder struct {
	Entries []Entry
}

func (r *Recorder) Info(msg string)  { r.add(LevelInfo, msg) }
func (r *Recorder) Warn(msg string)  { r.add(LevelWarn, msg) }
func (r *Recorder) Error(msg string) { r.add(LevelError, msg) }

func (r *Recorder) add(level Level, msg string) {
	r.Entries = append(r.Entries, Entry{Level: level, Msg: msg})
}

// Count returns the number of entries at level.
func (r *Recorder) Count(level Level) int {
	n := 0
	for _, e := range r.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Last returns the most recent entry.
func (r *Recorder) Last() (Entry, bool) {
	if len(r.Entries) == 0 {
		return Entry{}, false
	}
	return r.Entries[len(r.Entries)-1], true
}
