package internal_test

import (
	"os"

	"github.com/frahmantamala/vehicle-service-shop/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	var cfg *internal.Config

	BeforeEach(func() {
		cfg = &internal.Config{
			Database: internal.DatabaseConfig{Source: "postgres://localhost/shop"},
			Security: internal.SecurityConfig{JWTSecret: "0123456789abcdef0123456789abcdef"},
		}
		cfg.ApplyDefaults()
	})

	It("should be valid with defaults applied", func() {
		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.Server.Port).To(Equal(8080))
		Expect(cfg.Security.BCryptCost).To(BeNumerically(">=", 10))
	})

	It("should reject a short signing secret", func() {
		cfg.Security.JWTSecret = "short"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("JWTSecret")))
	})

	It("should reject a missing database source", func() {
		cfg.Database.Source = ""
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("Source")))
	})

	It("should reject more idle than open connections", func() {
		cfg.Database.MaxIdleConns = cfg.Database.MaxOpenConns + 1
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("max_idle_conns")))
	})

	It("should split allowed origins", func() {
		cfg.Server.AllowedOrigins = "https://a.example, ,https://b.example"
		Expect(cfg.Server.Origins()).To(Equal([]string{"https://a.example", "https://b.example"}))
	})

	It("should read container settings from the environment", func() {
		for key, value := range map[string]string{
			"HTTP_PORT":    "9090",
			"JWT_SECRET":   "0123456789abcdef0123456789abcdef",
			"DATABASE_URL": "postgres://db/shop",
		} {
			Expect(os.Setenv(key, value)).To(Succeed())
			DeferCleanup(os.Unsetenv, key)
		}

		env := internal.LoadConfigFromEnv()
		Expect(env.Server.Port).To(Equal(9090))
		Expect(env.Environment).To(Equal("production"))
		Expect(env.Validate()).To(Succeed())
	})
})
