// Package workbench is the root Bubble Tea model of the confetti editor: open
// documents as tabs, the confetti panels beside them, a status line and the
// key bindings that run the add-on's commands.
package workbench
