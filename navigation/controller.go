package navigation

import (
	"errors"
	"fmt"

	"promptshop/authdialog"
	"promptshop/cart"
	"promptshop/catalog"
	"promptshop/pricing"
)

var (
	// ErrNoSelection signals a details view or selection without an item.
	ErrNoSelection = errors.New("navigation: no item selected")
	// ErrUnknownScreen signals an unrecognised navigation target.
	ErrUnknownScreen = errors.New("navigation: unknown screen")
	// ErrNotAtPayment signals a payment event outside the payment screen.
	ErrNotAtPayment = errors.New("navigation: payment confirmed outside payment screen")
)

// PaymentNotice is the confirmation shown after a successful payment.
const PaymentNotice = "Payment Successful! Welcome to the course."

// Controller owns all per-shopper state: the visible screen, the current
// selection, the session, the cart and the auth dialog. At most one gated
// target is remembered while the shopper authenticates; it is replayed
// exactly once on success. A Controller is not safe for concurrent use.
type Controller struct {
	screen    Screen
	selection *catalog.Item
	session   Session
	deferred  *Screen
	dialog    authdialog.Dialog
	cart      *cart.Store
	notice    string
	profile   Profile
}

// NewController returns a controller on the home screen with an
// unauthenticated session.
func NewController() *Controller {
	return &Controller{
		screen:  ScreenHome,
		cart:    cart.New(),
		profile: MockProfile,
	}
}

// WithProfile overrides the profile granted on authentication success.
func (c *Controller) WithProfile(p Profile) *Controller {
	c.profile = p
	return c
}

func (c *Controller) Screen() Screen {
	return c.screen
}

func (c *Controller) Authenticated() bool {
	return c.session.Authenticated
}

// DeferredIntent returns the pending gated target, if any.
func (c *Controller) DeferredIntent() (Screen, bool) {
	if c.deferred == nil {
		return "", false
	}
	return *c.deferred, true
}

// GoHome shows the home screen and drops the selection.
func (c *Controller) GoHome() {
	c.screen = ScreenHome
	c.selection = nil
}

// SelectItem makes item the current selection and shows its details.
func (c *Controller) SelectItem(item catalog.Item) error {
	if item.ID == "" {
		return ErrNoSelection
	}
	c.selection = &item
	c.screen = ScreenDetails
	return nil
}

// GoProfile shows the profile screen. Unauthenticated shoppers are sent
// through the gate instead.
func (c *Controller) GoProfile() error {
	return c.RequestGatedNavigation(ScreenProfile)
}

// RequestGatedNavigation navigates to target if the shopper is
// authenticated. Otherwise it remembers target, replacing any earlier
// pending target, and opens the dialog in login mode.
func (c *Controller) RequestGatedNavigation(target Screen) error {
	if _, err := ParseScreen(string(target)); err != nil {
		return fmt.Errorf("navigation: gate %q: %w", target, err)
	}
	if target == ScreenDetails && c.selection == nil {
		return ErrNoSelection
	}

	if c.session.Authenticated {
		c.screen = target
		return nil
	}

	c.deferred = &target
	return c.dialog.Open(authdialog.ModeLogin)
}

// Enroll starts a purchase of the current selection or cart.
func (c *Controller) Enroll() error {
	return c.RequestGatedNavigation(ScreenPayment)
}

// Checkout starts a purchase of the cart.
func (c *Controller) Checkout() error {
	return c.RequestGatedNavigation(ScreenPayment)
}

// OpenCart shows the cart screen. Browsing the cart is not gated.
func (c *Controller) OpenCart() {
	c.screen = ScreenCart
}

// OpenAuthDialog opens the dialog without a pending target.
func (c *Controller) OpenAuthDialog(mode authdialog.Mode) error {
	return c.dialog.Open(mode)
}

// CloseAuthDialog dismisses the dialog. A pending target is discarded so a
// later unrelated sign-in does not redirect the shopper.
func (c *Controller) CloseAuthDialog() {
	c.dialog.Close()
	c.deferred = nil
}

// OnAuthSuccess marks the session authenticated, closes the dialog and
// replays the pending target if there is one.
func (c *Controller) OnAuthSuccess() {
	c.session.Authenticated = true
	c.session.Profile = c.profile
	c.dialog.Close()

	if c.deferred == nil {
		return
	}
	target := *c.deferred
	c.deferred = nil
	if target == ScreenDetails && c.selection == nil {
		return
	}
	c.screen = target
}

// OnPaymentSuccess records the confirmation, enrolls the purchased items,
// empties the cart and shows the profile.
func (c *Controller) OnPaymentSuccess() error {
	if c.screen != ScreenPayment {
		return ErrNotAtPayment
	}

	c.notice = PaymentNotice
	for _, item := range c.CheckoutItems() {
		if !c.isEnrolled(item.ID) {
			c.session.Enrolled = append(c.session.Enrolled, item)
		}
	}
	c.cart.Clear()
	return c.GoProfile()
}

// TakeNotice returns the pending confirmation message and clears it.
func (c *Controller) TakeNotice() string {
	n := c.notice
	c.notice = ""
	return n
}

// ToggleAuthMode flips the dialog between login and signup.
func (c *Controller) ToggleAuthMode() error {
	return c.dialog.ToggleMode()
}

// SubmitCredentials submits the credentials form; a login completes
// authentication immediately.
func (c *Controller) SubmitCredentials() error {
	res, err := c.dialog.SubmitCredentials()
	if err != nil {
		return err
	}
	c.complete(res)
	return nil
}

// EnterCodeDigit stores one code character.
func (c *Controller) EnterCodeDigit(index int, value string) error {
	return c.dialog.EnterCodeDigit(index, value)
}

// Backspace handles a backspace press in a code slot.
func (c *Controller) Backspace(index int) error {
	return c.dialog.Backspace(index)
}

// BackToCredentials returns the dialog to the credentials form.
func (c *Controller) BackToCredentials() error {
	return c.dialog.BackToCredentials()
}

// ResendCode clears the entered code.
func (c *Controller) ResendCode() error {
	return c.dialog.ResendCode()
}

// SubmitVerification completes a signup.
func (c *Controller) SubmitVerification() error {
	res, err := c.dialog.SubmitVerification()
	if err != nil {
		return err
	}
	c.complete(res)
	return nil
}

// AddToCart adds item to the cart. It reports whether the item was new.
func (c *Controller) AddToCart(item catalog.Item) (bool, error) {
	if item.ID == "" {
		return false, ErrNoSelection
	}
	return c.cart.Add(item), nil
}

// RemoveFromCart removes the item with id; absent ids are ignored.
func (c *Controller) RemoveFromCart(id string) {
	c.cart.Remove(id)
}

// CheckoutItems lists what a payment would cover: the cart, or the current
// selection when the cart is empty.
func (c *Controller) CheckoutItems() []catalog.Item {
	if c.cart.Len() > 0 {
		return c.cart.Items()
	}
	if c.selection != nil {
		return []catalog.Item{*c.selection}
	}
	return nil
}

// Summary prices the checkout items.
func (c *Controller) Summary() pricing.Summary {
	return cart.Summarize(c.CheckoutItems())
}

// State returns a rendering snapshot.
func (c *Controller) State() State {
	st := State{
		Screen:     c.screen,
		AuthDialog: c.dialog.State(),
		Cart:       c.cart.Items(),
		Summary:    c.Summary(),
		Notice:     c.notice,
		Session: Session{
			Authenticated: c.session.Authenticated,
			Profile:       c.session.Profile,
			Enrolled:      append([]catalog.Item(nil), c.session.Enrolled...),
		},
	}
	if c.selection != nil {
		sel := *c.selection
		st.Selection = &sel
	}
	if c.deferred != nil {
		d := *c.deferred
		st.DeferredIntent = &d
	}
	return st
}

func (c *Controller) complete(res authdialog.Result) {
	if res == authdialog.Succeeded {
		c.OnAuthSuccess()
	}
}

func (c *Controller) isEnrolled(id string) bool {
	for _, item := range c.session.Enrolled {
		if item.ID == id {
			return true
		}
	}
	return false
}
