package control

import (
	"errors"
	"fmt"
	"sort"
)

const (
	DisplacementStep = 0.1
	RotationStep     = 0.1
	MotionStep       = 0.05
)

var ErrUnknownCommand = errors.New("control: unknown command")

type Command string

const (
	DisplacementUp   Command = "displacement_up"
	DisplacementDown Command = "displacement_down"
	RotationUp       Command = "rotation_up"
	RotationDown     Command = "rotation_down"
	MotionUp         Command = "motion_up"
	MotionDown       Command = "motion_down"
	SetDisplacement  Command = "set_displacement"
	SetRotation      Command = "set_rotation"
	SetMotion        Command = "set_motion"
	Reseed           Command = "reseed"
	Reset            Command = "reset"
	ToggleRecording  Command = "toggle_recording"
	Snapshot         Command = "snapshot"
)

var commands = map[Command]string{
	DisplacementUp:   "increase displacement by 0.1",
	DisplacementDown: "decrease displacement by 0.1 (floor 0)",
	RotationUp:       "increase rotation by 0.1",
	RotationDown:     "decrease rotation by 0.1 (floor 0)",
	MotionUp:         "increase motion probability by 0.05",
	MotionDown:       "decrease motion probability by 0.05",
	SetDisplacement:  "set displacement to value",
	SetRotation:      "set rotation to value",
	SetMotion:        "set motion probability to value",
	Reseed:           "restart the random stream (value is the seed, 0 picks one)",
	Reset:            "return every square to its home position",
	ToggleRecording:  "start or stop frame recording",
	Snapshot:         "save the current frame as an image",
}

func ParseCommand(name string) (Command, error) {
	c := Command(name)
	if _, ok := commands[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return c, nil
}

// Describe returns a one-line help text for c.
func (c Command) Describe() string {
	return commands[c]
}

func ListCommands() []Command {
	out := make([]Command, 0, len(commands))
	for c := range commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
