package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/okian/typerank/internal/config"
	"github.com/okian/typerank/pkg/logger"
	"github.com/okian/typerank/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smartystreets/goconvey/convey"
)

func TestBuild(t *testing.T) {
	convey.Convey("Given a config with a file tier and a plain admin password", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		cfg.DataFile = filepath.Join(t.TempDir(), "leaderboard.json")
		cfg.AdminPassword = "pw"

		handler, closeStore, err := build(ctx, cfg, logger.Nop())
		convey.So(err, convey.ShouldBeNil)
		defer func() { _ = closeStore() }()

		convey.Convey("When an admin logs in and adds a score", func() {
			login := httptest.NewRecorder()
			handler.ServeHTTP(login, httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{"password":"pw"}`)))
			convey.So(login.Code, convey.ShouldEqual, http.StatusOK)
			var session struct {
				Token string `json:"token"`
			}
			convey.So(json.Unmarshal(login.Body.Bytes(), &session), convey.ShouldBeNil)
			token := session.Token

			req := httptest.NewRequest(http.MethodPost, "/api/admin/add-score", strings.NewReader(`{"name":"Grace","wpm":88,"accuracy":97.5}`))
			req.Header.Set("Authorization", "Bearer "+token)
			add := httptest.NewRecorder()
			handler.ServeHTTP(add, req)

			convey.Convey("Then the score is persisted and visible", func() {
				convey.So(add.Code, convey.ShouldEqual, http.StatusOK)

				rank := httptest.NewRecorder()
				handler.ServeHTTP(rank, httptest.NewRequest(http.MethodGet, "/api/rank/grace", nil))
				convey.So(rank.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(rank.Body.String(), convey.ShouldContainSubstring, `"rank":1`)

				status := httptest.NewRecorder()
				handler.ServeHTTP(status, httptest.NewRequest(http.MethodGet, "/api/status", nil))
				convey.So(status.Body.String(), convey.ShouldContainSubstring, `"tiers":["file","memory"]`)
			})
		})
	})

	convey.Convey("Given a config with an unparsable Redis URL", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		cfg.RedisURL = "ftp://nowhere"

		convey.Convey("Then wiring fails", func() {
			_, _, err := build(ctx, cfg, logger.Nop())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestSystemMetricsUpdater(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			startSystemMetricsUpdater(ctx)
			close(done)
		}()

		convey.Convey("Then it reports goroutines and stops with the context", func() {
			convey.So(func() bool {
				deadline := time.Now().Add(2 * time.Second)
				for time.Now().Before(deadline) {
					if n, err := testutil.GatherAndCount(metrics.GetRegistry(), "typerank_system_goroutine_count"); err == nil && n > 0 {
						return true
					}
					time.Sleep(10 * time.Millisecond)
				}
				return false
			}(), convey.ShouldBeTrue)

			cancel()
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("updater did not stop")
			}
		})
	})
}
