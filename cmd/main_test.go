package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/touchline/internal/adapters/repository"
	"github.com/okian/touchline/internal/config"
	"github.com/okian/touchline/internal/domain/types"
	"github.com/okian/touchline/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func call(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, r))
	return w
}

func TestBuild(t *testing.T) {
	convey.Convey("Given a memory-backed configuration", t, func() {
		convey.So(logger.Init(logger.WithWriter(io.Discard)), convey.ShouldBeNil)
		ctx := context.Background()
		cfg := config.New()
		cfg.StoreDriver = config.DriverMemory
		cfg.HomeTeam = "Lions"
		cfg.Roster = []string{"Alice"}

		a, err := build(ctx, cfg)
		convey.So(err, convey.ShouldBeNil)
		convey.So(a.start(ctx), convey.ShouldBeNil)
		defer a.stop(ctx)

		convey.Convey("Then the API, docs and metrics are served", func() {
			convey.So(call(a.handler, http.MethodGet, "/healthz", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(call(a.handler, http.MethodGet, "/openapi.yaml", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(call(a.handler, http.MethodGet, "/metrics", "").Code, convey.ShouldEqual, http.StatusOK)

			var roster []string
			convey.So(json.Unmarshal(call(a.handler, http.MethodGet, "/roster", "").Body.Bytes(), &roster), convey.ShouldBeNil)
			convey.So(roster, convey.ShouldResemble, []string{"Alice"})
		})

		convey.Convey("Then configured team names are used", func() {
			w := call(a.handler, http.MethodPost, "/goals", `{"scorer":"Alice","side":"home"}`)
			convey.So(w.Code, convey.ShouldEqual, http.StatusCreated)

			var st types.State
			w = call(a.handler, http.MethodPut, "/teams/away", `{"name":"Rovers"}`)
			convey.So(json.Unmarshal(w.Body.Bytes(), &st), convey.ShouldBeNil)
			convey.So(st.Scoreboard, convey.ShouldResemble, types.Scoreboard{
				Home: "Lions", Away: "Rovers", HomeGoals: 1,
			})
		})
	})
}

func TestBuild_SQLiteRestart(t *testing.T) {
	convey.Convey("Given a sqlite-backed configuration", t, func() {
		convey.So(logger.Init(logger.WithWriter(io.Discard)), convey.ShouldBeNil)
		ctx := context.Background()
		cfg := config.New()
		cfg.StorePath = filepath.Join(t.TempDir(), "match.db")

		first, err := build(ctx, cfg)
		convey.So(err, convey.ShouldBeNil)
		convey.So(first.start(ctx), convey.ShouldBeNil)
		convey.So(call(first.handler, http.MethodPost, "/goals", `{"scorer":"Alice","side":"home"}`).Code, convey.ShouldEqual, http.StatusCreated)
		id := first.session.ID()
		first.stop(ctx)

		convey.Convey("When the process starts again", func() {
			second, err := build(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			convey.So(second.start(ctx), convey.ShouldBeNil)
			defer second.stop(ctx)

			convey.Convey("Then the match is restored", func() {
				convey.So(second.session.ID(), convey.ShouldEqual, id)
				convey.So(second.session.Scoreboard().HomeGoals, convey.ShouldEqual, 1)
			})
		})
	})
}

func TestOpenStore(t *testing.T) {
	convey.Convey("Given an unknown store driver", t, func() {
		cfg := config.New()
		cfg.StoreDriver = "mongo"

		_, err := openStore(context.Background(), cfg)
		convey.So(errors.Is(err, repository.ErrUnknownDriver), convey.ShouldBeTrue)
	})
}
