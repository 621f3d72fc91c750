package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/leomash/rankdb/internal/adapters/http/api"
	service "github.com/leomash/rankdb/internal/app"
	"github.com/leomash/rankdb/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := service.New(service.WithStoreValidation(true))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, svc, 100).Register(context.Background(), mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	return resp
}

func TestRegisterAndRank(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts := newTestServer(t)

		Convey("When registering players", func() {
			for _, p := range []map[string]any{
				{"name": "A", "rating": 100},
				{"name": "B", "rating": 75},
				{"name": "C", "rating": 300},
			} {
				resp := postJSON(t, ts.URL+"/players", p)
				So(resp.StatusCode, ShouldEqual, http.StatusNoContent)
				resp.Body.Close()
			}

			Convey("Then /rank returns the competitive rank", func() {
				resp, err := http.Get(ts.URL + "/rank/C")
				So(err, ShouldBeNil)
				defer resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var row api.PlayerRow
				So(json.NewDecoder(resp.Body).Decode(&row), ShouldBeNil)
				So(row.Rank, ShouldEqual, 1)
				So(row.Rating, ShouldEqual, 300)
			})

			Convey("And /players lists everyone by name", func() {
				resp, err := http.Get(ts.URL + "/players")
				So(err, ShouldBeNil)
				defer resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var rows []api.PlayerRow
				So(json.NewDecoder(resp.Body).Decode(&rows), ShouldBeNil)
				So(rows, ShouldHaveLength, 3)
				So(rows[0].Name, ShouldEqual, "A")
				So(rows[2].Name, ShouldEqual, "C")
			})

			Convey("And responses carry a request id", func() {
				resp, err := http.Get(ts.URL + "/players")
				So(err, ShouldBeNil)
				resp.Body.Close()
				So(resp.Header.Get("X-Request-Id"), ShouldNotBeEmpty)
			})
		})
	})
}

func TestRankErrors(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts := newTestServer(t)

		Convey("An unknown player yields 404", func() {
			resp, err := http.Get(ts.URL + "/rank/ghost")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("A nested path yields 400", func() {
			resp, err := http.Get(ts.URL + "/rank/a/b")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestRegisterValidation(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts := newTestServer(t)

		Convey("A missing name yields 400", func() {
			resp := postJSON(t, ts.URL+"/players", map[string]any{"rating": 100})
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A malformed body yields 400", func() {
			resp, err := http.Post(ts.URL+"/players", "application/json", bytes.NewReader([]byte("{")))
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestUnregister(t *testing.T) {
	Convey("Given a server with one player", t, func() {
		ts := newTestServer(t)
		resp := postJSON(t, ts.URL+"/players", map[string]any{"name": "A", "rating": 100})
		resp.Body.Close()

		deletePlayer := func(name string) int {
			req, err := http.NewRequest(http.MethodDelete, ts.URL+"/players/"+name, nil)
			So(err, ShouldBeNil)
			res, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			res.Body.Close()
			return res.StatusCode
		}

		Convey("Deleting the player succeeds", func() {
			So(deletePlayer("A"), ShouldEqual, http.StatusNoContent)

			Convey("And the player is unranked afterwards", func() {
				res, err := http.Get(ts.URL + "/rank/A")
				So(err, ShouldBeNil)
				res.Body.Close()
				So(res.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("Deleting an unknown player is idempotent", func() {
			So(deletePlayer("ghost"), ShouldEqual, http.StatusNoContent)
		})
	})
}

func TestRollbackEndpoint(t *testing.T) {
	Convey("Given a server with two registrations", t, func() {
		ts := newTestServer(t)
		for _, p := range []map[string]any{
			{"name": "A", "rating": 100},
			{"name": "B", "rating": 200},
		} {
			resp := postJSON(t, ts.URL+"/players", p)
			resp.Body.Close()
		}

		Convey("Rolling back one step drops the newest player", func() {
			resp := postJSON(t, ts.URL+"/rollback", map[string]any{"steps": 1})
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNoContent)

			res, err := http.Get(ts.URL + "/rank/B")
			So(err, ShouldBeNil)
			res.Body.Close()
			So(res.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("Negative steps yield 400", func() {
			resp := postJSON(t, ts.URL+"/rollback", map[string]any{"steps": -1})
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts := newTestServer(t)

		Convey("/healthz serves the metrics exposition", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("/stats serves the service stats", func() {
			resp, err := http.Get(ts.URL + "/stats")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var stats map[string]any
			So(json.NewDecoder(resp.Body).Decode(&stats), ShouldBeNil)
			So(stats["started"], ShouldEqual, true)
		})
	})
}
