package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"promptshop/authdialog"
	"promptshop/catalog"
	"promptshop/navigation"
	"promptshop/session"
)

type ctxKey string

const ctxKeySessionID ctxKey = "session_id"

var errBadRequest = errors.New("api: bad request")

// Server exposes the storefront controller over HTTP. Each browser session
// owns one navigation.Controller inside the registry.
type Server struct {
	catalogService *catalog.Service
	sessions       *session.Registry
	tokens         *session.Tokens
	logger         *zap.Logger
}

// NewServer wires a Server. A nil logger disables logging.
func NewServer(catalogService *catalog.Service, sessions *session.Registry, tokens *session.Tokens, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		catalogService: catalogService,
		sessions:       sessions,
		tokens:         tokens,
		logger:         logger,
	}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalogList)
		r.Get("/catalog/{id}", s.handleCatalogItem)
		r.Post("/sessions", s.handleCreateSession)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)

			r.Delete("/sessions", s.handleEndSession)
			r.Get("/state", s.handleState)

			r.Post("/nav/home", s.handleGoHome)
			r.Post("/nav/select", s.handleSelect)
			r.Post("/nav/profile", s.handleGoProfile)
			r.Post("/nav/cart", s.handleOpenCart)
			r.Post("/nav/gated", s.handleGated)
			r.Post("/enroll", s.handleEnroll)
			r.Post("/checkout", s.handleCheckout)

			r.Post("/auth/open", s.handleAuthOpen)
			r.Post("/auth/close", s.handleAuthClose)
			r.Post("/auth/toggle", s.handleAuthToggle)
			r.Post("/auth/credentials", s.handleAuthCredentials)
			r.Post("/auth/code", s.handleAuthCode)
			r.Post("/auth/backspace", s.handleAuthBackspace)
			r.Post("/auth/back", s.handleAuthBack)
			r.Post("/auth/resend", s.handleAuthResend)
			r.Post("/auth/verify", s.handleAuthVerify)

			r.Get("/cart", s.handleState)
			r.Post("/cart", s.handleCartAdd)
			r.Delete("/cart/{id}", s.handleCartRemove)

			r.Post("/payment/success", s.handlePaymentSuccess)
		})
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		}
		if ww.Status() >= http.StatusInternalServerError {
			s.logger.Error("request failed", fields...)
			return
		}
		s.logger.Debug("request served", fields...)
	})
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing session token")
			return
		}
		sid, err := s.tokens.Parse(token)
		if err != nil {
			s.logger.Debug("rejected session token", zap.Error(err))
			writeError(w, http.StatusUnauthorized, "invalid session token")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeySessionID, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionIDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(ctxKeySessionID).(string)
	return sid
}

// apply runs fn against the caller's controller and responds with the
// resulting state. A pending notice is delivered once, in this response.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, fn func(*navigation.Controller) error) {
	sid := sessionIDFromContext(r.Context())

	var st navigation.State
	err := s.sessions.With(r.Context(), sid, func(c *navigation.Controller) error {
		if err := fn(c); err != nil {
			return err
		}
		st = c.State()
		c.TakeNotice()
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStateResponse(st))
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request error",
			zap.String("path", r.URL.Path),
			zap.String("session_id", sessionIDFromContext(r.Context())),
			zap.Error(err),
		)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: decode body: %v", errBadRequest, err)
	}
	return nil
}

func (s *Server) handleCatalogList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	items, err := s.catalogService.List(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": toItemResponses(items),
		"total": len(items),
	})
}

func (s *Server) handleCatalogItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.catalogService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sid := s.sessions.Create()
	token, err := s.tokens.Issue(sid)
	if err != nil {
		s.sessions.Delete(sid)
		s.fail(w, r, err)
		return
	}

	var st navigation.State
	if err := s.sessions.With(r.Context(), sid, func(c *navigation.Controller) error {
		st = c.State()
		return nil
	}); err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info("session created", zap.String("session_id", sid))
	writeJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"state": toStateResponse(st),
	})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(sessionIDFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(*navigation.Controller) error { return nil })
}

func (s *Server) handleGoHome(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(c *navigation.Controller) error {
		c.GoHome()
		return nil
	})
}

type itemRequest struct {
	ItemID string `json:"item_id"`
}

// lookupItem resolves the item named in the request body via the catalog.
func (s *Server) lookupItem(r *http.Request) (catalog.Item, error) {
	var req itemRequest
	if err := decodeBody(r, &req); err != nil {
		return catalog.Item{}, err
	}
	return s.catalogService.GetByID(r.Context(), req.ItemID)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	item, err := s.lookupItem(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.apply(w, r, func(c *navigation.Controller) error {
		return c.SelectItem(item)
	})
}

func (s *Server) handleGoProfile(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(c *navigation.Controller) error {
		return c.GoProfile()
	})
}

func (s *Server) handleOpenCart(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(c *navigation.Controller) error {
		c.OpenCart()
		return nil
	})
}

type gatedRequest struct {
	Target string `json:"target"`
}

func (s *Server) handleGated(w http.ResponseWriter, r *http.Request) {
	var req gatedRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	target, err := navigation.ParseScreen(req.Target)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.apply(w, r, func(c *navigation.Controller) error {
		return c.RequestGatedNavigation(target)
	})
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(c *navigation.Controller) error {
		return c.Enroll()
	})
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(c *navigation.Controller) error {
		return c.Checkout()
	})
}

type authOpenRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleAuthOpen(w http.ResponseWriter, r *http.Request) {
	var req authOpenRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	mode, err := authdialog.ParseMode(req.Mode)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.apply(w, r, func(c *navigation.Controller) error {
		return c.OpenAuthDialog(mode)
	})
}

func (s *Server) handleAuthClose(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(c *navigation.Controller) error {
		c.CloseAuthDialog()
		return nil
	})
}

func (s *Server) handleAuthToggle(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(c *navigation.Controller) error {
		return c.ToggleAuthMode()
	})
}

func (s *Server) handleAuthCredentials(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(c *navigation.Controller) error {
		if err := c.SubmitCredentials(); err != nil {
			return err
		}
		if c.Authenticated() {
			s.logger.Info("session authenticated", zap.String("session_id", sessionIDFromContext(r.Context())))
		}
		return nil
	})
}

type codeRequest struct {
	Index *int   `json:"index"`
	Value string `json:"value"`
}

func (s *Server) handleAuthCode(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Index == nil {
		s.fail(w, r, fmt.Errorf("%w: index required", errBadRequest))
		return
	}
	s.apply(w, r, func(c *navigation.Controller) error {
		return c.EnterCodeDigit(*req.Index, req.Value)
	})
}

func (s *Server) handleAuthBackspace(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Index == nil {
		s.fail(w, r, fmt.Errorf("%w: index required", errBadRequest))
		return
	}
	s.apply(w, r, func(c *navigation.Controller) error {
		return c.Backspace(*req.Index)
	})
}

func (s *Server) handleAuthBack(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(c *navigation.Controller) error {
		return c.BackToCredentials()
	})
}

func (s *Server) handleAuthResend(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(c *navigation.Controller) error {
		return c.ResendCode()
	})
}

func (s *Server) handleAuthVerify(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(c *navigation.Controller) error {
		if err := c.SubmitVerification(); err != nil {
			return err
		}
		s.logger.Info("session authenticated", zap.String("session_id", sessionIDFromContext(r.Context())))
		return nil
	})
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	item, err := s.lookupItem(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.apply(w, r, func(c *navigation.Controller) error {
		_, err := c.AddToCart(item)
		return err
	})
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.apply(w, r, func(c *navigation.Controller) error {
		c.RemoveFromCart(id)
		return nil
	})
}

func (s *Server) handlePaymentSuccess(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(c *navigation.Controller) error {
		if err := c.OnPaymentSuccess(); err != nil {
			return err
		}
		s.logger.Info("payment confirmed",
			zap.String("session_id", sessionIDFromContext(r.Context())),
			zap.Int("enrolled", len(c.State().Session.Enrolled)),
		)
		return nil
	})
}
