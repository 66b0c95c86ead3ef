package navigation

import (
	"promptshop/authdialog"
	"promptshop/catalog"
	"promptshop/pricing"
)

// Screen identifies the visible top-level view.
type Screen string

const (
	ScreenHome    Screen = "home"
	ScreenDetails Screen = "details"
	ScreenProfile Screen = "profile"
	ScreenPayment Screen = "payment"
	ScreenCart    Screen = "cart"
)

// ParseScreen validates a screen name.
func ParseScreen(s string) (Screen, error) {
	switch Screen(s) {
	case ScreenHome, ScreenDetails, ScreenProfile, ScreenPayment, ScreenCart:
		return Screen(s), nil
	default:
		return "", ErrUnknownScreen
	}
}

// Profile is the account record shown on the profile screen.
type Profile struct {
	Name     string
	Email    string
	Role     string
	Mobile   string
	Avatar   string
	Location string
}

// MockProfile is handed out on every successful sign-in until a real
// identity provider supplies one.
var MockProfile = Profile{
	Name:     "Yashwant Rao",
	Email:    "yashwant@gmail.com",
	Role:     "Product Designer",
	Mobile:   "8877665544",
	Avatar:   "https://picsum.photos/100/100?random=99",
	Location: "San Francisco, CA",
}

// Session is the shopper's authentication status.
type Session struct {
	Authenticated bool
	Profile       Profile
	Enrolled      []catalog.Item
}

// State is a rendering snapshot of the controller. Slices are copies.
type State struct {
	Screen         Screen
	Selection      *catalog.Item
	Session        Session
	DeferredIntent *Screen
	AuthDialog     authdialog.State
	Cart           []catalog.Item
	Summary        pricing.Summary
	Notice         string
}
