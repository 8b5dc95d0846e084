package access_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/vehicle-service-shop/internal"
	"github.com/frahmantamala/vehicle-service-shop/internal/access"
	accessPostgres "github.com/frahmantamala/vehicle-service-shop/internal/access/postgres"
	roleDatamodel "github.com/frahmantamala/vehicle-service-shop/internal/core/datamodel/role"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/events"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/identity"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/permission"
	"github.com/frahmantamala/vehicle-service-shop/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type eventSink struct {
	types []string
}

func (s *eventSink) Publish(_ context.Context, event events.Event) error {
	s.types = append(s.types, event.EventType())
	return nil
}

func boolPtr(b bool) *bool { return &b }

var _ = Describe("Access Service", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		sink    *eventSink
		service *access.Service
		admin   identity.Identity
	)

	roleID := func(name string) int64 {
		id, err := service.RoleIDByName(ctx, name)
		Expect(err).NotTo(HaveOccurred())
		return id
	}

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&roleDatamodel.Role{}, &roleDatamodel.Access{})).To(Succeed())

		sink = &eventSink{}
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = access.NewService(accessPostgres.NewAccessRepository(db), sink, lg)
		Expect(service.SeedDefaults(ctx)).To(Succeed())

		admin = identity.Identity{UserID: 1, RoleID: roleID(identity.AdminRole), RoleName: identity.AdminRole}
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("SeedDefaults", func() {
		It("should create the three fixed roles", func() {
			roles, err := service.ListRoles(ctx)
			Expect(err).NotTo(HaveOccurred())

			names := make([]string, 0, len(roles))
			for _, r := range roles {
				names = append(names, r.Name)
			}
			Expect(names).To(ConsistOf(identity.AdminRole, identity.StaffRole, identity.CustomerRole))
		})

		It("should let customers do everything on vehicles and nothing else", func() {
			customerID := roleID(identity.CustomerRole)

			flags, found, err := service.GetAccessRule(ctx, customerID, permission.ResourceVehicle)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())
			Expect(flags).To(Equal(permission.AllFlags()))

			_, found, err = service.GetAccessRule(ctx, customerID, permission.ResourceUser)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeFalse())
		})

		It("should give staff no rules", func() {
			rules, err := service.ListRules(ctx, roleID(identity.StaffRole))
			Expect(err).NotTo(HaveOccurred())
			Expect(rules).To(BeEmpty())
		})

		It("should keep a revoked rule on a second run", func() {
			customerID := roleID(identity.CustomerRole)
			_, err := service.UpsertRule(ctx, admin, access.UpsertRuleDTO{
				RoleID: customerID, Resource: "vehicle",
				CanCreate: boolPtr(false), CanRead: boolPtr(true), CanUpdate: boolPtr(false), CanDelete: boolPtr(false),
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.SeedDefaults(ctx)).To(Succeed())

			flags, _, err := service.GetAccessRule(ctx, customerID, permission.ResourceVehicle)
			Expect(err).NotTo(HaveOccurred())
			Expect(flags).To(Equal(permission.Flags{CanRead: true}))
		})
	})

	Describe("UpsertRule", func() {
		It("should grant and publish an audit event", func() {
			staffID := roleID(identity.StaffRole)
			rule, err := service.UpsertRule(ctx, admin, access.UpsertRuleDTO{
				RoleID: staffID, Resource: " user ",
				CanCreate: boolPtr(false), CanRead: boolPtr(true), CanUpdate: boolPtr(true), CanDelete: boolPtr(false),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(rule.Resource).To(Equal("user"))
			Expect(rule.ID).To(BeNumerically(">", 0))
			Expect(sink.types).To(ContainElement(events.EventTypeAccessUpdated))

			flags, found, err := service.GetAccessRule(ctx, staffID, permission.ResourceUser)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())
			Expect(flags).To(Equal(permission.Flags{CanRead: true, CanUpdate: true}))
		})

		It("should require all four flags", func() {
			_, err := service.UpsertRule(ctx, admin, access.UpsertRuleDTO{
				RoleID: roleID(identity.StaffRole), Resource: "user", CanRead: boolPtr(true),
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})

		It("should reject an unknown role", func() {
			_, err := service.UpsertRule(ctx, admin, access.UpsertRuleDTO{
				RoleID: 999, Resource: "user",
				CanCreate: boolPtr(true), CanRead: boolPtr(true), CanUpdate: boolPtr(true), CanDelete: boolPtr(true),
			})
			Expect(errors.Is(err, internal.ErrRoleNotFound)).To(BeTrue())
		})

		It("should store a rule for an unknown resource tag", func() {
			rule, err := service.UpsertRule(ctx, admin, access.UpsertRuleDTO{
				RoleID: roleID(identity.StaffRole), Resource: "invoice",
				CanCreate: boolPtr(true), CanRead: boolPtr(true), CanUpdate: boolPtr(true), CanDelete: boolPtr(true),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(rule.Resource).To(Equal("invoice"))
		})
	})

	It("should report rules of an unknown role as not found", func() {
		_, err := service.ListRules(ctx, 999)
		Expect(errors.Is(err, internal.ErrRoleNotFound)).To(BeTrue())
	})

	It("should report an unknown role name", func() {
		_, err := service.RoleIDByName(ctx, "ghost")
		Expect(errors.Is(err, internal.ErrRoleNotFound)).To(BeTrue())
	})

	Describe("Handler", func() {
		var router *chi.Mux

		BeforeEach(func() {
			lg := slog.New(slog.NewTextHandler(io.Discard, nil))
			handler := access.NewHandler(transport.NewBaseHandler(lg), service)

			router = chi.NewRouter()
			router.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					next.ServeHTTP(w, r.WithContext(internal.ContextWithIdentity(r.Context(), admin)))
				})
			})
			router.Get("/users/roles", handler.GetRoles)
			router.Get("/users/accesses/{role_id}", handler.GetRoleAccess)
			router.Post("/users/accesses", handler.UpdateRoleAccess)
		})

		serve := func(method, path, body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(method, path, strings.NewReader(body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			return w
		}

		It("should list roles", func() {
			w := serve(http.MethodGet, "/users/roles", "")
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp access.RolesResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Roles).To(HaveLen(3))
		})

		It("should list the rules of a role", func() {
			adminID := roleID(identity.AdminRole)
			w := serve(http.MethodGet, "/users/accesses/"+jsonInt(adminID), "")
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp access.RulesResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.RoleID).To(Equal(adminID))
			Expect(resp.Accesses).To(HaveLen(len(permission.KnownResources)))
		})

		It("should answer an unknown role with 404", func() {
			w := serve(http.MethodGet, "/users/accesses/999", "")
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should upsert a rule", func() {
			body := `{"role_id":` + jsonInt(roleID(identity.StaffRole)) +
				`,"resource":"vehicle","can_create":false,"can_read":true,"can_update":false,"can_delete":false}`
			w := serve(http.MethodPost, "/users/accesses", body)
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp access.UpsertRuleResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Access.CanRead).To(BeTrue())
			Expect(resp.Access.CanCreate).To(BeFalse())
		})
	})
})

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
