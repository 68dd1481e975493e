package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/simumatch/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have the reference defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.WindowDays, convey.ShouldEqual, 28)
			convey.So(cfg.DefaultTopK, convey.ShouldEqual, 5)
			convey.So(cfg.MaxTopK, convey.ShouldEqual, 50)
			convey.So(cfg.DefaultStrategy, convey.ShouldEqual, "rule")
			convey.So(cfg.WeightEndurance, convey.ShouldEqual, 0.5)
			convey.So(cfg.WeightSpeed, convey.ShouldEqual, 0.4)
			convey.So(cfg.WeightRecovery, convey.ShouldEqual, 0.1)
			convey.So(cfg.BaselinePace, convey.ShouldEqual, 6.0)
			convey.So(cfg.RecoveryTarget, convey.ShouldEqual, 85.0)
			convey.So(cfg.NeutralReadiness, convey.ShouldEqual, 50.0)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then durations are derived from milliseconds", func() {
			convey.So(cfg.BreakerTimeout(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.RequestTimeout(), convey.ShouldEqual, 5*time.Second)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one invalid field each", t, func() {
		cases := map[string]func(c *config.Config){
			"empty addr":          func(c *config.Config) { c.Addr = "" },
			"zero window":         func(c *config.Config) { c.WindowDays = 0 },
			"top_k above max":     func(c *config.Config) { c.DefaultTopK = 60 },
			"negative weight":     func(c *config.Config) { c.WeightSpeed = -0.1 },
			"zero baseline pace":  func(c *config.Config) { c.BaselinePace = 0 },
			"readiness above 100": func(c *config.Config) { c.NeutralReadiness = 101 },
			"unknown strategy":    func(c *config.Config) { c.DefaultStrategy = "neural" },
			"unknown log format":  func(c *config.Config) { c.LogFormat = "xml" },
			"zero breaker":        func(c *config.Config) { c.BreakerFailures = 0 },
			"zero request budget": func(c *config.Config) { c.RequestTimeoutMS = 0 },
		}

		convey.Convey("Then each is rejected as invalid", func() {
			for _, mutate := range cases {
				cfg := config.New()
				mutate(cfg)
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			}
		})
	})
}
