package postgres_test

import (
	"context"
	"errors"

	"github.com/frahmantamala/vehicle-service-shop/internal"
	vehicleDatamodel "github.com/frahmantamala/vehicle-service-shop/internal/core/datamodel/vehicle"
	"github.com/frahmantamala/vehicle-service-shop/internal/vehicle"
	vehiclePostgres "github.com/frahmantamala/vehicle-service-shop/internal/vehicle/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Vehicle PostgreSQL Repository", func() {
	var (
		ctx  context.Context
		db   *gorm.DB
		repo vehicle.RepositoryAPI
	)

	newVehicle := func(owner int64, plate string) *vehicle.Vehicle {
		return &vehicle.Vehicle{OwnerUserID: owner, Make: "Toyota", Model: "Corolla", Year: 2019, LicensePlate: plate}
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

		Expect(db.AutoMigrate(&vehicleDatamodel.Vehicle{})).To(Succeed())
		repo = vehiclePostgres.NewVehicleRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("Create", func() {
		It("should assign an id and timestamps", func() {
			v := newVehicle(1, "B 1")
			Expect(repo.Create(ctx, v)).To(Succeed())

			Expect(v.ID).To(BeNumerically(">", 0))
			Expect(v.CreatedAt).NotTo(BeZero())
		})

		It("should map a duplicate plate to a conflict", func() {
			Expect(repo.Create(ctx, newVehicle(1, "B 1"))).To(Succeed())

			err := repo.Create(ctx, newVehicle(2, "B 1"))
			Expect(errors.Is(err, internal.ErrDuplicateCredential)).To(BeTrue())
		})
	})

	Describe("listing", func() {
		BeforeEach(func() {
			Expect(repo.Create(ctx, newVehicle(1, "B 1"))).To(Succeed())
			Expect(repo.Create(ctx, newVehicle(2, "B 2"))).To(Succeed())
			Expect(repo.Create(ctx, newVehicle(1, "B 3"))).To(Succeed())
		})

		It("should list active vehicles by owner in id order", func() {
			vehicles, err := repo.ListActiveByOwner(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(vehicles).To(HaveLen(2))
			Expect(vehicles[0].LicensePlate).To(Equal("B 1"))
			Expect(vehicles[1].LicensePlate).To(Equal("B 3"))
		})

		It("should leave out soft-deleted vehicles", func() {
			Expect(repo.SoftDelete(ctx, 1)).To(Succeed())

			vehicles, err := repo.ListActive(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(vehicles).To(HaveLen(2))
		})

		It("should return an empty slice for an owner without vehicles", func() {
			vehicles, err := repo.ListActiveByOwner(ctx, 42)
			Expect(err).NotTo(HaveOccurred())
			Expect(vehicles).NotTo(BeNil())
			Expect(vehicles).To(BeEmpty())
		})
	})

	Describe("FindActiveByID", func() {
		It("should return nil without error for a missing row", func() {
			v, err := repo.FindActiveByID(ctx, 999)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(BeNil())
		})

		It("should return nil for a soft-deleted row", func() {
			v := newVehicle(1, "B 1")
			Expect(repo.Create(ctx, v)).To(Succeed())
			Expect(repo.SoftDelete(ctx, v.ID)).To(Succeed())

			found, err := repo.FindActiveByID(ctx, v.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})
	})

	Describe("Update and SoftDelete", func() {
		It("should persist changed attributes", func() {
			v := newVehicle(1, "B 1")
			Expect(repo.Create(ctx, v)).To(Succeed())

			v.Model = "Camry"
			Expect(repo.Update(ctx, v)).To(Succeed())

			found, err := repo.FindActiveByID(ctx, v.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Model).To(Equal("Camry"))
			Expect(found.OwnerUserID).To(Equal(int64(1)))
		})

		It("should report a missing row", func() {
			Expect(errors.Is(repo.Update(ctx, newVehicle(1, "B 9")), vehicle.ErrNotFound)).To(BeTrue())
			Expect(errors.Is(repo.SoftDelete(ctx, 999), vehicle.ErrNotFound)).To(BeTrue())
		})

		It("should not delete a row twice", func() {
			v := newVehicle(1, "B 1")
			Expect(repo.Create(ctx, v)).To(Succeed())
			Expect(repo.SoftDelete(ctx, v.ID)).To(Succeed())

			Expect(errors.Is(repo.SoftDelete(ctx, v.ID), vehicle.ErrNotFound)).To(BeTrue())
		})

		It("should free the plate after deletion", func() {
			v := newVehicle(1, "B 1")
			Expect(repo.Create(ctx, v)).To(Succeed())
			Expect(repo.SoftDelete(ctx, v.ID)).To(Succeed())

			Expect(repo.Create(ctx, newVehicle(2, "B 1"))).To(Succeed())
		})
	})
})
