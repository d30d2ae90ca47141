package notify

import (
	"github.com/ncruces/zenity"
)

const dialogTitle = "Confetti"

// Dialog shows messages as native desktop message boxes.
//
// Boxes are modal, so each one is shown from its own goroutine and the
// caller returns immediately. Failures (no display, no zenity helper) are
// reported to fallback.
type Dialog struct {
	fallback Notifier
	show     func(level Level, msg string) error
}

func NewDialog(fallback Notifier) *Dialog {
	if fallback == nil {
		fallback = Discard
	}
	return &Dialog{fallback: fallback, show: showZenity}
}

func (d *Dialog) Info(msg string)  { d.post(LevelInfo, msg) }
func (d *Dialog) Warn(msg string)  { d.post(LevelWarn, msg) }
func (d *Dialog) Error(msg string) { d.post(LevelError, msg) }

func (d *Dialog) post(level Level, msg string) {
	show := d.show
	go func() {
		if err := show(level, msg); err != nil {
			Send(d.fallback, level, msg)
		}
	}()
}

func showZenity(level Level, msg string) error {
	opts := []zenity.Option{zenity.Title(dialogTitle), zenity.NoWrap()}
	switch level {
	case LevelWarn:
		return zenity.Warning(msg, opts...)
	case LevelError:
		return zenity.Error(msg, opts...)
	}
	return zenity.Info(msg, opts...)
}
