package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/DATA-DOG/go-sqlmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("HealthHandler", func() {
	It("should report healthy when the database answers a ping", func() {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		Expect(err).NotTo(HaveOccurred())
		defer db.Close()
		mock.ExpectPing()

		w := httptest.NewRecorder()
		NewHealthHandler(db).healthCheckHandler(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		var body HealthResponse
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.Status).To(Equal(HealthHealthy))
		Expect(body.Components).To(HaveKey("database"))
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("should report 503 without leaking the driver error", func() {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		Expect(err).NotTo(HaveOccurred())
		defer db.Close()
		mock.ExpectPing().WillReturnError(errors.New("dial tcp 10.0.0.5:5432: connection refused"))

		w := httptest.NewRecorder()
		NewHealthHandler(db).healthCheckHandler(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(w.Body.String()).NotTo(ContainSubstring("10.0.0.5"))

		var body HealthResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Status).To(Equal(HealthUnhealthy))
		Expect(body.Components["database"].Message).To(Equal("database unreachable"))
	})

	It("should report 503 when no database is configured", func() {
		w := httptest.NewRecorder()
		NewHealthHandler(nil).healthCheckHandler(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
	})

	It("should answer ping without a database", func() {
		w := httptest.NewRecorder()
		NewHealthHandler(nil).pingHandler(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"status":"OK"}`))
	})
})
