package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/touchline/internal/adapters/http/api"
	"github.com/okian/touchline/internal/adapters/repository"
	service "github.com/okian/touchline/internal/app"
	"github.com/okian/touchline/internal/domain/types"
	"github.com/okian/touchline/internal/testutil"
	"github.com/okian/touchline/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func readFrame(conn *websocket.Conn) frame {
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f frame
	So(conn.ReadJSON(&f), ShouldBeNil)
	return f
}

func TestHub_Feed(t *testing.T) {
	Convey("Given a server with a live feed", t, func() {
		So(logger.Init(logger.WithWriter(io.Discard)), ShouldBeNil)
		ctx := context.Background()
		hub := api.NewHub()
		src := testutil.NewManualSource()
		session := service.New(
			service.WithSource(src),
			service.WithStore(repository.NewMemoryStore()),
			service.WithFeed(hub),
			service.WithTickInterval(time.Second),
		)
		So(session.Start(ctx), ShouldBeNil)
		defer session.Stop(ctx)

		mux := http.NewServeMux()
		api.NewServer(session, hub, logger.Get()).Register(ctx, mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()
		defer hub.Close()
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

		Convey("When a client connects", func() {
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			So(err, ShouldBeNil)
			defer conn.Close()

			Convey("Then it first receives the full state", func() {
				f := readFrame(conn)
				So(f.Type, ShouldEqual, types.FeedState)
				var st types.State
				So(json.Unmarshal(f.Data, &st), ShouldBeNil)
				So(st.SessionID, ShouldEqual, session.ID())
				So(eventually(func() bool { return hub.ClientCount() == 1 }), ShouldBeTrue)
			})

			Convey("Then clock ticks follow a start", func() {
				readFrame(conn)
				So(eventually(func() bool { return hub.ClientCount() == 1 }), ShouldBeTrue)
				So(session.StartClock(ctx), ShouldBeNil)
				So(readFrame(conn).Type, ShouldEqual, types.FeedState)

				src.Advance(2 * time.Second)
				f := readFrame(conn)
				So(f.Type, ShouldEqual, types.FeedTick)
				var v types.ClockView
				So(json.Unmarshal(f.Data, &v), ShouldBeNil)
				So(v.ElapsedSeconds, ShouldEqual, 1)
				So(readFrame(conn).Type, ShouldEqual, types.FeedTick)
			})

			Convey("Then closing the hub disconnects it", func() {
				readFrame(conn)
				So(eventually(func() bool { return hub.ClientCount() == 1 }), ShouldBeTrue)
				hub.Close()
				So(hub.ClientCount(), ShouldEqual, 0)
				_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
				_, _, err := conn.ReadMessage()
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When a client from another origin connects", func() {
			for _, origin := range []string{
				"http://evil.example",
				srv.URL + ".evil.example",
				"http://evil.example/" + strings.TrimPrefix(srv.URL, "http://"),
			} {
				header := http.Header{"Origin": []string{origin}}
				_, resp, err := websocket.DefaultDialer.Dial(url, header)

				So(err, ShouldNotBeNil)
				So(resp, ShouldNotBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusForbidden)
			}
		})

		Convey("When a client from the same origin connects", func() {
			header := http.Header{"Origin": []string{srv.URL}}
			conn, _, err := websocket.DefaultDialer.Dial(url, header)
			So(err, ShouldBeNil)
			defer conn.Close()

			So(readFrame(conn).Type, ShouldEqual, types.FeedState)
		})
	})
}

func TestHub_Broadcast(t *testing.T) {
	Convey("Given a hub with no clients", t, func() {
		So(logger.Init(logger.WithWriter(io.Discard)), ShouldBeNil)
		hub := api.NewHub(api.WithSendBuffer(1), api.WithAllowedOrigins([]string{"*"}))

		Convey("Then broadcasting is a no-op", func() {
			So(func() { hub.Broadcast(types.FeedMessage{Type: types.FeedTick}) }, ShouldNotPanic)
			So(hub.ClientCount(), ShouldEqual, 0)
		})

		Convey("Then a closed hub refuses new clients", func() {
			hub.Close()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = hub.Serve(w, r, nil)
			}))
			defer srv.Close()

			conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
			So(err, ShouldBeNil)
			defer conn.Close()
			_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			_, _, err = conn.ReadMessage()
			So(err, ShouldNotBeNil)
			So(hub.ClientCount(), ShouldEqual, 0)
		})
	})
}
