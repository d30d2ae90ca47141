package panel

import (
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/flourish-confetti/emission"
)

// Commands carried by Message.
const (
	CommandTriggerConfetti = "triggerConfetti"
	CommandUpdateSettings  = "updateSettings"
	CommandTestPop         = "testPop"
)

// Message is the one-way payload exchanged with a panel.
//
// Settings accompanies updateSettings. Emission is filled in by surfaces that
// resolve a burst before handing it to an external renderer.
type Message struct {
	Command  string            `json:"command"`
	Settings *emission.Partial `json:"settings,omitempty"`
	Emission *emission.Event   `json:"emission,omitempty"`
}

func Trigger() Message { return Message{Command: CommandTriggerConfetti} }

func TestPop() Message { return Message{Command: CommandTestPop} }

func UpdateSettings(p emission.Partial) Message {
	return Message{Command: CommandUpdateSettings, Settings: &p}
}

// Decode parses a message received from a panel.
func Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("panel: decode message: %w", err)
	}
	switch msg.Command {
	case CommandTriggerConfetti, CommandTestPop:
	case CommandUpdateSettings:
		if msg.Settings == nil {
			return Message{}, fmt.Errorf("panel: %s without settings", msg.Command)
		}
	default:
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownCommand, msg.Command)
	}
	return msg, nil
}

// Envelope is a message a panel sent to the host.
type Envelope struct {
	From Kind
	ID   ID
	Msg  Message
}

// Send returns a command that delivers msg to the host as an Envelope.
func Send(from Kind, id ID, msg Message) tea.Cmd {
	return func() tea.Msg { return Envelope{From: from, ID: id, Msg: msg} }
}
