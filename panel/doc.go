// Package panel manages the rendering surfaces the confetti add-on opens.
//
// A Registry holds at most one live Panel per Kind. Opening a kind that is
// already live reveals the existing panel; a panel that closes reports it
// through the disposal callback handed to its Factory, and the Registry forgets
// it before that callback returns, so no caller can reach a disposed panel.
package panel
