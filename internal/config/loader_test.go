package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/typerank/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"TYPERANK_CONFIG",
	"TYPERANK_ADDR",
	"TYPERANK_LOG_FORMAT",
	"TYPERANK_DATA_FILE",
	"TYPERANK_REDIS_ADDR",
	"TYPERANK_REDIS_DB",
	"TYPERANK_REMOTE_TIMEOUT_MS",
	"TYPERANK_ADMIN_PASSWORD",
	"TYPERANK_LOGIN_BURST",
}

func clearConfigEnvVars() {
	for _, v := range configEnvVars {
		_ = os.Unsetenv(v)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "typerank-*.yaml")
	if err != nil {
		t.Fatalf("create temp config: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	_ = f.Close()
	return f.Name()
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":3000")
				convey.So(cfg.RemoteTimeoutMS, convey.ShouldEqual, 2000)
				convey.So(cfg.Storage().Remote, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("TYPERANK_ADDR", ":8080")
			_ = os.Setenv("TYPERANK_REDIS_ADDR", "localhost:6379")
			_ = os.Setenv("TYPERANK_REDIS_DB", "3")
			_ = os.Setenv("TYPERANK_ADMIN_PASSWORD", "hunter2")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RedisAddr, convey.ShouldEqual, "localhost:6379")
				convey.So(cfg.RedisDB, convey.ShouldEqual, 3)
				convey.So(cfg.AdminPassword, convey.ShouldEqual, "hunter2")
				convey.So(cfg.Storage().Remote, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			path := createTempConfigFile(t, `
addr: ":9090"
data_file: "/var/lib/typerank/board.json"
remote_timeout_ms: 500
log_format: json
`)
			_ = os.Setenv("TYPERANK_CONFIG", path)
			_ = os.Setenv("TYPERANK_ADDR", ":8081")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")
				convey.So(cfg.DataFile, convey.ShouldEqual, "/var/lib/typerank/board.json")
				convey.So(cfg.RemoteTimeoutMS, convey.ShouldEqual, 500)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.LoginBurst, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			path := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("TYPERANK_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("TYPERANK_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("TYPERANK_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a numeric variable is not a number", func() {
			_ = os.Setenv("TYPERANK_LOGIN_BURST", "lots")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a config error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}
