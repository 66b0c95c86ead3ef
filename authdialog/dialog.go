package authdialog

import (
	"errors"
	"fmt"
)

// Mode selects between signing in and creating an account.
type Mode string

const (
	ModeLogin  Mode = "login"
	ModeSignup Mode = "signup"
)

// Stage is the step within the dialog.
type Stage string

const (
	StageCredentials  Stage = "credentials"
	StageVerification Stage = "verification"
)

// CodeLength is the number of one-time code slots.
const CodeLength = 4

// Result reports whether a submit completed the flow.
type Result int

const (
	Pending Result = iota
	Succeeded
)

var (
	// ErrClosed signals an operation on a dialog that is not open.
	ErrClosed = errors.New("authdialog: dialog is closed")
	// ErrWrongStage signals an operation not valid for the current stage.
	ErrWrongStage = errors.New("authdialog: operation not valid in current stage")
	// ErrInvalidMode signals an unknown mode value.
	ErrInvalidMode = errors.New("authdialog: invalid mode")
	// ErrSlotOutOfRange signals a code slot index outside [0, CodeLength).
	ErrSlotOutOfRange = errors.New("authdialog: code slot out of range")
)

// State is a read-only view of the dialog for rendering.
type State struct {
	Open  bool
	Mode  Mode
	Stage Stage
	Code  [CodeLength]string
	Focus int
}

// Dialog drives the credentials → verification flow. The zero value is a
// closed dialog. It is not safe for concurrent use.
type Dialog struct {
	open  bool
	mode  Mode
	stage Stage
	code  [CodeLength]string
	focus int
}

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLogin, ModeSignup:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Open shows the dialog in the given mode. It always starts over at the
// credentials stage with an empty code, even if already open.
func (d *Dialog) Open(mode Mode) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}
	*d = Dialog{
		open:  true,
		mode:  mode,
		stage: StageCredentials,
	}
	return nil
}

// Close hides the dialog and discards its progress.
func (d *Dialog) Close() {
	*d = Dialog{}
}

func (d *Dialog) IsOpen() bool {
	return d.open
}

// State returns a snapshot of the dialog.
func (d *Dialog) State() State {
	return State{
		Open:  d.open,
		Mode:  d.mode,
		Stage: d.stage,
		Code:  d.code,
		Focus: d.focus,
	}
}

// ToggleMode flips between login and signup. Toggling during verification
// returns to the credentials stage and clears the code.
func (d *Dialog) ToggleMode() error {
	if !d.open {
		return ErrClosed
	}
	if d.mode == ModeLogin {
		d.mode = ModeSignup
	} else {
		d.mode = ModeLogin
	}
	if d.stage == StageVerification {
		d.resetCode()
		d.stage = StageCredentials
	}
	return nil
}

// SubmitCredentials advances a signup to verification, or completes a login.
func (d *Dialog) SubmitCredentials() (Result, error) {
	if !d.open {
		return Pending, ErrClosed
	}
	if d.stage != StageCredentials {
		return Pending, ErrWrongStage
	}
	if d.mode == ModeSignup {
		d.stage = StageVerification
		d.resetCode()
		return Pending, nil
	}
	return Succeeded, nil
}

// EnterCodeDigit stores value in slot index. Values longer than one
// character are ignored. A non-empty value moves focus to the next slot
// unless index is the last one.
func (d *Dialog) EnterCodeDigit(index int, value string) error {
	if err := d.checkVerification(index); err != nil {
		return err
	}
	if len([]rune(value)) > 1 {
		return nil
	}
	d.code[index] = value
	d.focus = index
	if value != "" && index < CodeLength-1 {
		d.focus = index + 1
	}
	return nil
}

// Backspace handles a backspace key press in slot index. On an empty slot
// other than the first, focus moves back one slot and that slot keeps its
// content. On a filled slot the content is cleared.
func (d *Dialog) Backspace(index int) error {
	if err := d.checkVerification(index); err != nil {
		return err
	}
	if d.code[index] == "" {
		if index > 0 {
			d.focus = index - 1
		}
		return nil
	}
	d.code[index] = ""
	d.focus = index
	return nil
}

// BackToCredentials returns from verification to the credentials form.
func (d *Dialog) BackToCredentials() error {
	if !d.open {
		return ErrClosed
	}
	if d.stage != StageVerification {
		return ErrWrongStage
	}
	d.stage = StageCredentials
	d.resetCode()
	return nil
}

// ResendCode clears the entered code. Delivery is out of scope here.
func (d *Dialog) ResendCode() error {
	if !d.open {
		return ErrClosed
	}
	if d.stage != StageVerification {
		return ErrWrongStage
	}
	d.resetCode()
	return nil
}

// SubmitVerification completes the signup flow. The code is not checked.
func (d *Dialog) SubmitVerification() (Result, error) {
	if !d.open {
		return Pending, ErrClosed
	}
	if d.stage != StageVerification {
		return Pending, ErrWrongStage
	}
	return Succeeded, nil
}

// Code returns the entered slots joined together.
func (d *Dialog) Code() string {
	var out string
	for _, c := range d.code {
		out += c
	}
	return out
}

func (d *Dialog) checkVerification(index int) error {
	if !d.open {
		return ErrClosed
	}
	if d.stage != StageVerification {
		return ErrWrongStage
	}
	if index < 0 || index >= CodeLength {
		return fmt.Errorf("%w: %d", ErrSlotOutOfRange, index)
	}
	return nil
}

func (d *Dialog) resetCode() {
	d.code = [CodeLength]string{}
	d.focus = 0
}
