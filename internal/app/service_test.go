package service_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/leomash/rankdb/internal/adapters/repository"
	service "github.com/leomash/rankdb/internal/app"
	"github.com/leomash/rankdb/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func startedService(t *testing.T) *service.Service {
	t.Helper()
	svc := service.New(service.WithStoreValidation(true))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()

		Convey("Then it is not started", func() {
			So(svc.GetStats()["started"], ShouldEqual, false)
		})

		Convey("When started", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			defer svc.Stop()

			Convey("Then stats report the running state", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["players"], ShouldEqual, 0)
				So(stats["historyDepth"], ShouldEqual, 1)
			})

			Convey("And starting twice is a no-op", func() {
				So(svc.Start(context.Background()), ShouldBeNil)
			})
		})
	})
}

func TestService_RegisterAndQuery(t *testing.T) {
	Convey("Given a started service with players", t, func() {
		ctx := context.Background()
		svc := startedService(t)

		So(svc.Register(ctx, "A", 100), ShouldBeNil)
		So(svc.Register(ctx, "B", 75), ShouldBeNil)
		So(svc.Register(ctx, "C", 300), ShouldBeNil)

		Convey("Then ranks follow rating order", func() {
			row, err := svc.Rank(ctx, "C")
			So(err, ShouldBeNil)
			So(row.Rank, ShouldEqual, 1)

			row, err = svc.Rank(ctx, "B")
			So(err, ShouldBeNil)
			So(row.Rank, ShouldEqual, 3)
		})

		Convey("And unknown players yield ErrNotFound", func() {
			_, err := svc.Rank(ctx, "ghost")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("And the listing honors the limit", func() {
			rows, err := svc.List(ctx, 2)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 2)
			So(rows[0].Name, ShouldEqual, "A")
			So(rows[1].Name, ShouldEqual, "B")
		})
	})
}

func TestService_Rollback(t *testing.T) {
	Convey("Given a started service with history", t, func() {
		ctx := context.Background()
		svc := startedService(t)

		So(svc.Register(ctx, "A", 100), ShouldBeNil)
		So(svc.Register(ctx, "B", 200), ShouldBeNil)

		Convey("When rolling back one step", func() {
			So(svc.Rollback(ctx, 1), ShouldBeNil)

			Convey("Then the last registration is gone", func() {
				_, err := svc.Rank(ctx, "B")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)

				row, err := svc.Rank(ctx, "A")
				So(err, ShouldBeNil)
				So(row.Rank, ShouldEqual, 1)
			})
		})

		Convey("When rolling back negative steps", func() {
			err := svc.Rollback(ctx, -1)

			Convey("Then the sentinel error surfaces", func() {
				So(errors.Is(err, repository.ErrNegativeSteps), ShouldBeTrue)
			})
		})
	})
}
