package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerWriter(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithWriter(&buf), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with structured fields", func() {
			Get().Info(ctx, "rows loaded",
				String("source", "csv"),
				Int("rows", 10),
				Bool("fallback", true),
				Float64("r2", 0.75),
				Duration("took", 1500*time.Millisecond),
				Error(errors.New("boom")),
			)

			Convey("Then every field is rendered", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "rows loaded")
				So(out, ShouldContainSubstring, "rows=10")
				So(out, ShouldContainSubstring, "fallback=true")
				So(out, ShouldContainSubstring, "r2=0.75")
				So(out, ShouldContainSubstring, "source=logger_test.go:")
				So(out, ShouldContainSubstring, "took=1.5s")
				So(out, ShouldContainSubstring, "error=boom")
			})
		})

		Convey("When the level is raised to warn", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "shown")

			Convey("Then info entries are dropped", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "shown")
			})
		})

		Convey("When an unknown level is given", func() {
			err := SetLevelString("chatty")

			Convey("Then it is rejected", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When a nil writer is given", func() {
			Convey("Then initialization fails", func() {
				So(InitWithWriter(nil), ShouldNotBeNil)
			})
		})
	})
}

func TestLoggerNamed(t *testing.T) {
	Convey("Given a component logger", t, func() {
		var buf bytes.Buffer
		So(InitWithWriter(&buf), ShouldBeNil)
		named := Get().Named("normalize")

		Convey("When it logs", func() {
			named.Info(context.Background(), "test message", String("k", "v"))

			Convey("Then the entry carries the component and its own fields", func() {
				So(buf.String(), ShouldContainSubstring, "component=normalize")
				So(buf.String(), ShouldContainSubstring, "k=v")
			})
		})

		Convey("When the level drops debug entries", func() {
			named.Debug(context.Background(), "quiet")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})
	})
}
