package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/vehicle-service-shop/internal"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/identity"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/permission"
	"github.com/frahmantamala/vehicle-service-shop/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubAuthenticator struct {
	id  identity.Identity
	err error
}

func (s stubAuthenticator) AuthenticateRequest(rawHeader string) (identity.Identity, error) {
	if rawHeader == "" {
		return identity.Identity{}, internal.ErrMissingCredential
	}
	return s.id, s.err
}

type stubAuthorizer struct {
	err   error
	calls int
}

func (s *stubAuthorizer) Authorize(_ context.Context, _ identity.Identity, _ permission.Resource, _ permission.Action) error {
	s.calls++
	return s.err
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(w *httptest.ResponseRecorder) errorBody {
	var body errorBody
	Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
	return body
}

var _ = Describe("Middleware", func() {
	var lg *slog.Logger

	BeforeEach(func() {
		lg = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	Describe("Authenticate", func() {
		var (
			seen    identity.Identity
			reached bool
			next    http.Handler
		)

		BeforeEach(func() {
			reached = false
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				seen, _ = internal.IdentityFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})
		})

		It("should answer 401 when no token is sent", func() {
			h := Authenticate(stubAuthenticator{}, lg)(next)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/me", nil))

			Expect(reached).To(BeFalse())
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(decodeError(w).Error.Message).To(Equal("Access token missing"))
		})

		It("should answer 403 when the token does not verify", func() {
			h := Authenticate(stubAuthenticator{err: internal.ErrInvalidCredential}, lg)(next)
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			req.Header.Set("Authorization", "Bearer nope")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Expect(reached).To(BeFalse())
			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(decodeError(w).Error.Message).To(Equal("Invalid or expired token"))
		})

		It("should attach the identity when the token verifies", func() {
			alice := identity.Identity{UserID: 7, Username: "alice", RoleName: identity.CustomerRole}
			h := Authenticate(stubAuthenticator{id: alice}, lg)(next)
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			req.Header.Set("Authorization", "Bearer good")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Expect(reached).To(BeTrue())
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(seen.UserID).To(Equal(int64(7)))
			Expect(seen.Username).To(Equal("alice"))
		})
	})

	Describe("RequireAccess", func() {
		var reached bool

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusNoContent)
		})

		BeforeEach(func() {
			reached = false
		})

		serve := func(authz Authorizer, withIdentity bool) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, "/vehicles", nil)
			if withIdentity {
				req = req.WithContext(internal.ContextWithIdentity(req.Context(), identity.Identity{UserID: 1}))
			}
			w := httptest.NewRecorder()
			RequireAccess(authz, permission.ResourceVehicle, permission.ActionRead, lg)(next).ServeHTTP(w, req)
			return w
		}

		It("should pass through an allowed request", func() {
			authz := &stubAuthorizer{}
			w := serve(authz, true)

			Expect(reached).To(BeTrue())
			Expect(authz.calls).To(Equal(1))
			Expect(w.Code).To(Equal(http.StatusNoContent))
		})

		It("should answer 403 on a denied request", func() {
			w := serve(&stubAuthorizer{err: internal.ErrAccessDenied}, true)

			Expect(reached).To(BeFalse())
			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(decodeError(w).Error.Code).To(Equal(string(internal.ErrCodeAccessDenied)))
		})

		It("should answer 401 when wired without authentication", func() {
			authz := &stubAuthorizer{}
			w := serve(authz, false)

			Expect(reached).To(BeFalse())
			Expect(authz.calls).To(BeZero())
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("RequestID", func() {
		var seen string
		echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = logger.TraceID(r.Context())
		})

		It("should keep a trace id sent by the caller", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(TraceHeader, "abc-123")
			w := httptest.NewRecorder()
			RequestID(echo).ServeHTTP(w, req)

			Expect(w.Header().Get(TraceHeader)).To(Equal("abc-123"))
			Expect(seen).To(Equal("abc-123"))
		})

		It("should generate one otherwise", func() {
			w := httptest.NewRecorder()
			RequestID(echo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			Expect(w.Header().Get(TraceHeader)).To(HaveLen(36))
		})

		It("should replace an oversized trace id", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(TraceHeader, strings.Repeat("x", 200))
			w := httptest.NewRecorder()
			RequestID(echo).ServeHTTP(w, req)

			Expect(w.Header().Get(TraceHeader)).To(HaveLen(36))
		})
	})

	Describe("RecoveryMiddleware", func() {
		It("should turn a panic into a 500 JSON error", func() {
			boom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic("boom")
			})
			w := httptest.NewRecorder()
			RecoveryMiddleware(lg)(boom).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			body := decodeError(w)
			Expect(body.Error.Code).To(Equal(string(internal.ErrCodeInternal)))
			Expect(w.Body.String()).NotTo(ContainSubstring("boom"))
		})
	})

	Describe("log filtering", func() {
		It("should mask credentials in JSON bodies at any depth", func() {
			out := filterSensitiveBody([]byte(`{"username":"alice","password":"hunter2","nested":{"token":"t"},"list":[{"jwt_secret":"s"}]}`))

			Expect(out).To(ContainSubstring(`"username":"alice"`))
			Expect(out).NotTo(ContainSubstring("hunter2"))
			Expect(out).NotTo(ContainSubstring(`"t"`))
			Expect(out).NotTo(ContainSubstring(`"s"`))
		})

		It("should drop non-JSON bodies mentioning a credential", func() {
			Expect(filterSensitiveBody([]byte("password=hunter2"))).To(Equal("[FILTERED - Contains sensitive data]"))
			Expect(filterSensitiveBody([]byte("plain"))).To(Equal("plain"))
		})

		It("should mask sensitive headers", func() {
			h := http.Header{}
			h.Set("Authorization", "Bearer abc")
			h.Set("Accept", "application/json")

			out := filterSensitiveHeaders(h)
			Expect(out["Authorization"]).To(Equal(filtered))
			Expect(out["Accept"]).To(Equal("application/json"))
		})

		It("should pass the response through unchanged", func() {
			h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				w.WriteHeader(http.StatusAccepted)
				_, _ = w.Write(body)
			}))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`)))

			Expect(w.Code).To(Equal(http.StatusAccepted))
			Expect(w.Body.String()).To(Equal(`{"a":1}`))
		})
	})
})
