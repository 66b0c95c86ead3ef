package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"promptshop/authdialog"
	"promptshop/catalog"
	"promptshop/navigation"
	"promptshop/pricing"
	"promptshop/session"
)

type itemResponse struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Rating        float64 `json:"rating"`
	Reviews       string  `json:"reviews"`
	PromptCount   int     `json:"prompt_count"`
	Price         float64 `json:"price"`
	DiscountPrice float64 `json:"discount_price"`
	Image         string  `json:"image"`
	Category      string  `json:"category"`
	Tag           string  `json:"tag"`
}

type profileResponse struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Mobile   string `json:"mobile"`
	Avatar   string `json:"avatar"`
	Location string `json:"location"`
}

type sessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	Profile       *profileResponse `json:"profile,omitempty"`
	Enrolled      []itemResponse   `json:"enrolled"`
}

type dialogResponse struct {
	Open  bool     `json:"open"`
	Mode  string   `json:"mode,omitempty"`
	Stage string   `json:"stage,omitempty"`
	Code  []string `json:"code,omitempty"`
	Focus int      `json:"focus"`
}

type summaryResponse struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
	Display  struct {
		Subtotal string `json:"subtotal"`
		Tax      string `json:"tax"`
		Total    string `json:"total"`
	} `json:"display"`
}

type stateResponse struct {
	Screen         string          `json:"screen"`
	Selection      *itemResponse   `json:"selection,omitempty"`
	Session        sessionResponse `json:"session"`
	DeferredIntent *string         `json:"deferred_intent,omitempty"`
	AuthDialog     dialogResponse  `json:"auth_dialog"`
	Cart           []itemResponse  `json:"cart"`
	Summary        summaryResponse `json:"summary"`
	Notice         string          `json:"notice,omitempty"`
}

func toItemResponse(item catalog.Item) itemResponse {
	return itemResponse{
		ID:            item.ID,
		Title:         item.Title,
		Author:        item.Author,
		Rating:        item.Rating,
		Reviews:       item.Reviews,
		PromptCount:   item.PromptCount,
		Price:         item.Price,
		DiscountPrice: item.DiscountPrice,
		Image:         item.Image,
		Category:      item.Category,
		Tag:           item.Tag,
	}
}

func toItemResponses(items []catalog.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return out
}

func toSummaryResponse(s pricing.Summary) summaryResponse {
	resp := summaryResponse{Subtotal: s.Subtotal, Tax: s.Tax, Total: s.Total}
	d := s.Display()
	resp.Display.Subtotal = d.Subtotal
	resp.Display.Tax = d.Tax
	resp.Display.Total = d.Total
	return resp
}

func toStateResponse(st navigation.State) stateResponse {
	resp := stateResponse{
		Screen: string(st.Screen),
		Session: sessionResponse{
			Authenticated: st.Session.Authenticated,
			Enrolled:      toItemResponses(st.Session.Enrolled),
		},
		AuthDialog: dialogResponse{
			Open:  st.AuthDialog.Open,
			Mode:  string(st.AuthDialog.Mode),
			Stage: string(st.AuthDialog.Stage),
			Focus: st.AuthDialog.Focus,
		},
		Cart:    toItemResponses(st.Cart),
		Summary: toSummaryResponse(st.Summary),
		Notice:  st.Notice,
	}
	if st.Selection != nil {
		sel := toItemResponse(*st.Selection)
		resp.Selection = &sel
	}
	if st.DeferredIntent != nil {
		intent := string(*st.DeferredIntent)
		resp.DeferredIntent = &intent
	}
	if st.Session.Authenticated {
		p := st.Session.Profile
		resp.Session.Profile = &profileResponse{
			Name:     p.Name,
			Email:    p.Email,
			Role:     p.Role,
			Mobile:   p.Mobile,
			Avatar:   p.Avatar,
			Location: p.Location,
		}
	}
	if st.AuthDialog.Open {
		resp.AuthDialog.Code = st.AuthDialog.Code[:]
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, navigation.ErrNoSelection),
		errors.Is(err, navigation.ErrUnknownScreen),
		errors.Is(err, authdialog.ErrInvalidMode),
		errors.Is(err, authdialog.ErrSlotOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, session.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, authdialog.ErrClosed),
		errors.Is(err, authdialog.ErrWrongStage),
		errors.Is(err, navigation.ErrNotAtPayment):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
