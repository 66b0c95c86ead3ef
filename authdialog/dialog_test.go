package authdialog

import (
	"errors"
	"testing"
)

func openSignupAtVerification(t *testing.T) *Dialog {
	t.Helper()
	d := &Dialog{}
	if err := d.Open(ModeSignup); err != nil {
		t.Fatalf("open: %v", err)
	}
	res, err := d.SubmitCredentials()
	if err != nil {
		t.Fatalf("submit credentials: %v", err)
	}
	if res != Pending {
		t.Fatalf("expected signup credentials to be pending, got %v", res)
	}
	return d
}

func TestDialog_ZeroValueIsClosed(t *testing.T) {
	var d Dialog
	if d.IsOpen() {
		t.Fatal("zero dialog should be closed")
	}
	if _, err := d.SubmitCredentials(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := d.ToggleMode(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestDialog_OpenRejectsUnknownMode(t *testing.T) {
	var d Dialog
	if err := d.Open(Mode("admin")); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
	if d.IsOpen() {
		t.Fatal("dialog opened with invalid mode")
	}
}

func TestDialog_LoginCompletesOnCredentials(t *testing.T) {
	var d Dialog
	if err := d.Open(ModeLogin); err != nil {
		t.Fatalf("open: %v", err)
	}
	res, err := d.SubmitCredentials()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res != Succeeded {
		t.Fatalf("expected login to succeed immediately, got %v", res)
	}
	if d.State().Stage != StageCredentials {
		t.Fatalf("login should not enter verification, got %s", d.State().Stage)
	}
}

func TestDialog_SignupRequiresVerification(t *testing.T) {
	d := openSignupAtVerification(t)

	if d.State().Stage != StageVerification {
		t.Fatalf("expected verification stage, got %s", d.State().Stage)
	}
	if _, err := d.SubmitCredentials(); !errors.Is(err, ErrWrongStage) {
		t.Fatalf("expected ErrWrongStage on second credentials submit, got %v", err)
	}

	res, err := d.SubmitVerification()
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if res != Succeeded {
		t.Fatalf("expected verification to succeed, got %v", res)
	}
}

func TestDialog_VerificationIgnoresCodeContent(t *testing.T) {
	d := openSignupAtVerification(t)
	_ = d.EnterCodeDigit(0, "9")

	res, err := d.SubmitVerification()
	if err != nil || res != Succeeded {
		t.Fatalf("expected permissive success with partial code, got %v %v", res, err)
	}
}

func TestDialog_SubmitVerificationBeforeStage(t *testing.T) {
	var d Dialog
	_ = d.Open(ModeSignup)
	if _, err := d.SubmitVerification(); !errors.Is(err, ErrWrongStage) {
		t.Fatalf("expected ErrWrongStage, got %v", err)
	}
}

func TestDialog_EnterCodeDigitSequence(t *testing.T) {
	d := openSignupAtVerification(t)

	for i, v := range []string{"1", "2", "3", "4"} {
		if err := d.EnterCodeDigit(i, v); err != nil {
			t.Fatalf("enter %d: %v", i, err)
		}
		want := i + 1
		if i == CodeLength-1 {
			want = i
		}
		if d.State().Focus != want {
			t.Fatalf("after slot %d expected focus %d, got %d", i, want, d.State().Focus)
		}
	}

	st := d.State()
	if st.Code != [CodeLength]string{"1", "2", "3", "4"} {
		t.Fatalf("unexpected code: %v", st.Code)
	}
	if st.Focus != CodeLength-1 {
		t.Fatalf("expected focus on last slot, got %d", st.Focus)
	}
	if d.Code() != "1234" {
		t.Fatalf("expected joined code 1234, got %s", d.Code())
	}
}

func TestDialog_EnterCodeDigitRejectsOverlong(t *testing.T) {
	d := openSignupAtVerification(t)
	_ = d.EnterCodeDigit(1, "7")

	for _, idx := range []int{0, 1, 3} {
		before := d.State()
		if err := d.EnterCodeDigit(idx, "12"); err != nil {
			t.Fatalf("overlong input should be a silent no-op, got %v", err)
		}
		if after := d.State(); after != before {
			t.Fatalf("slot %d changed on overlong input: %+v -> %+v", idx, before, after)
		}
	}
}

func TestDialog_EnterCodeDigitOutOfRange(t *testing.T) {
	d := openSignupAtVerification(t)
	if err := d.EnterCodeDigit(CodeLength, "1"); !errors.Is(err, ErrSlotOutOfRange) {
		t.Fatalf("expected ErrSlotOutOfRange, got %v", err)
	}
	if err := d.EnterCodeDigit(-1, "1"); !errors.Is(err, ErrSlotOutOfRange) {
		t.Fatalf("expected ErrSlotOutOfRange, got %v", err)
	}
}

func TestDialog_ClearingDigitKeepsFocus(t *testing.T) {
	d := openSignupAtVerification(t)
	_ = d.EnterCodeDigit(1, "5")
	_ = d.EnterCodeDigit(1, "")

	st := d.State()
	if st.Code[1] != "" || st.Focus != 1 {
		t.Fatalf("expected slot 1 cleared with focus 1, got %+v", st)
	}
}

func TestDialog_BackspaceOnEmptySlotMovesFocusBack(t *testing.T) {
	d := openSignupAtVerification(t)
	_ = d.EnterCodeDigit(0, "1")
	_ = d.EnterCodeDigit(1, "2")

	if err := d.Backspace(2); err != nil {
		t.Fatalf("backspace: %v", err)
	}
	st := d.State()
	if st.Focus != 1 {
		t.Fatalf("expected focus 1, got %d", st.Focus)
	}
	if st.Code[1] != "2" {
		t.Fatalf("previous slot content must be kept, got %q", st.Code[1])
	}

	if err := d.Backspace(1); err != nil {
		t.Fatalf("backspace filled: %v", err)
	}
	if st := d.State(); st.Code[1] != "" || st.Focus != 1 {
		t.Fatalf("expected filled slot cleared in place, got %+v", st)
	}
}

func TestDialog_BackspaceOnFirstEmptySlot(t *testing.T) {
	d := openSignupAtVerification(t)
	if err := d.Backspace(0); err != nil {
		t.Fatalf("backspace: %v", err)
	}
	if d.State().Focus != 0 {
		t.Fatalf("expected focus to stay on slot 0, got %d", d.State().Focus)
	}
}

func TestDialog_ToggleModeInCredentials(t *testing.T) {
	var d Dialog
	_ = d.Open(ModeLogin)

	if err := d.ToggleMode(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	st := d.State()
	if st.Mode != ModeSignup || st.Stage != StageCredentials {
		t.Fatalf("unexpected state after toggle: %+v", st)
	}

	_ = d.ToggleMode()
	if d.State().Mode != ModeLogin {
		t.Fatalf("expected login after second toggle, got %s", d.State().Mode)
	}
}

func TestDialog_ToggleModeDuringVerificationResetsProgress(t *testing.T) {
	d := openSignupAtVerification(t)
	_ = d.EnterCodeDigit(0, "1")
	_ = d.EnterCodeDigit(1, "2")

	if err := d.ToggleMode(); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	st := d.State()
	if st.Stage != StageCredentials {
		t.Fatalf("expected credentials stage after toggle, got %s", st.Stage)
	}
	if st.Mode != ModeLogin {
		t.Fatalf("expected login mode, got %s", st.Mode)
	}
	if st.Code != ([CodeLength]string{}) || st.Focus != 0 {
		t.Fatalf("expected cleared code, got %+v", st)
	}
}

func TestDialog_ReopenFullyResets(t *testing.T) {
	d := openSignupAtVerification(t)
	_ = d.EnterCodeDigit(0, "1")
	_ = d.EnterCodeDigit(1, "2")

	if err := d.Open(ModeLogin); err != nil {
		t.Fatalf("reopen: %v", err)
	}

	st := d.State()
	want := State{Open: true, Mode: ModeLogin, Stage: StageCredentials}
	if st != want {
		t.Fatalf("expected %+v after reopen, got %+v", want, st)
	}
}

func TestDialog_CloseDiscardsProgress(t *testing.T) {
	d := openSignupAtVerification(t)
	_ = d.EnterCodeDigit(0, "1")

	d.Close()
	if d.State() != (State{}) {
		t.Fatalf("expected zero state after close, got %+v", d.State())
	}

	_ = d.Open(ModeSignup)
	if st := d.State(); st.Stage != StageCredentials || st.Code[0] != "" {
		t.Fatalf("progress leaked across close: %+v", st)
	}
}

func TestDialog_BackAndResend(t *testing.T) {
	d := openSignupAtVerification(t)
	_ = d.EnterCodeDigit(0, "1")
	_ = d.EnterCodeDigit(1, "2")

	if err := d.ResendCode(); err != nil {
		t.Fatalf("resend: %v", err)
	}
	if st := d.State(); st.Code != ([CodeLength]string{}) || st.Focus != 0 || st.Stage != StageVerification {
		t.Fatalf("unexpected state after resend: %+v", st)
	}

	if err := d.BackToCredentials(); err != nil {
		t.Fatalf("back: %v", err)
	}
	if st := d.State(); st.Stage != StageCredentials || st.Mode != ModeSignup {
		t.Fatalf("unexpected state after back: %+v", st)
	}
	if err := d.BackToCredentials(); !errors.Is(err, ErrWrongStage) {
		t.Fatalf("expected ErrWrongStage, got %v", err)
	}
	if err := d.ResendCode(); !errors.Is(err, ErrWrongStage) {
		t.Fatalf("expected ErrWrongStage, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("signup"); err != nil || m != ModeSignup {
		t.Fatalf("expected signup, got %v %v", m, err)
	}
	if _, err := ParseMode("SIGNUP"); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
}
