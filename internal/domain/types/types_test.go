package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/emsanalytics/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestReportEntryJSON(t *testing.T) {
	Convey("Given report entries", t, func() {
		Convey("When encoding a top performer", func() {
			data, err := json.Marshal(types.TopPerformer{Name: "Employee 2", PerformanceScore: 92})

			Convey("Then the field names match the report format", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, `{"name":"Employee 2","performance_score":92}`)
			})
		})

		Convey("When encoding an at-risk employee", func() {
			data, err := json.Marshal(types.AtRiskEmployee{Name: "Employee 7", Role: "IT Support"})

			Convey("Then name and role are kept", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, `{"name":"Employee 7","role":"IT Support"}`)
			})
		})

		Convey("When encoding a skipped regression", func() {
			data, err := json.Marshal(types.Regression{Skipped: true})

			Convey("Then the metrics are zero and flagged", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, `"coefficient":0`)
				So(string(data), ShouldContainSubstring, `"r2_score":0`)
				So(string(data), ShouldContainSubstring, `"skipped":true`)
			})
		})
	})
}
