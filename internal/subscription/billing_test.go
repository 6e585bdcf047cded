// AngelaMos | 2026
// billing_test.go

package subscription

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func ymd(t time.Time) string {
	return t.Format(time.DateOnly)
}

func TestComputeEndDate(t *testing.T) {
	Convey("Given an activation date", t, func() {
		Convey("a monthly interval adds one calendar month", func() {
			So(ymd(ComputeEndDate(date(2024, 3, 15), Monthly)), ShouldEqual, "2024-04-15")
		})

		Convey("month-end overflow rolls into the following month", func() {
			So(ymd(ComputeEndDate(date(2024, 1, 31), Monthly)), ShouldEqual, "2024-03-02")
		})

		Convey("an annual interval adds one calendar year", func() {
			So(ymd(ComputeEndDate(date(2024, 5, 1), Annually)), ShouldEqual, "2025-05-01")
		})

		Convey("a leap day plus one year lands on March 1st", func() {
			So(ymd(ComputeEndDate(date(2024, 2, 29), Annually)), ShouldEqual, "2025-03-01")
		})
	})
}

func TestCalculateBillingPeriod(t *testing.T) {
	now := date(2024, 6, 20)

	Convey("Given a service that was never activated", t, func() {
		So(CalculateBillingPeriod(nil, Monthly, now), ShouldBeNil)
	})

	Convey("Given a monthly service activated 45 days ago", t, func() {
		activated := now.AddDate(0, 0, -45)
		period := CalculateBillingPeriod(&activated, Monthly, now)

		So(period, ShouldNotBeNil)

		Convey("the current period straddles now", func() {
			So(period.Start.After(now), ShouldBeFalse)
			So(period.End.After(now), ShouldBeTrue)
			So(period.Start.Equal(ComputeEndDate(activated, Monthly)), ShouldBeTrue)
		})

		Convey("the countdown and progress stay in range", func() {
			So(period.DaysRemaining, ShouldBeBetweenOrEqual, 0, 31)
			So(period.ProgressPercent, ShouldBeBetweenOrEqual, 0, 100)
			So(period.IsOverdue, ShouldBeFalse)
			So(period.RenewalDate.Equal(period.End), ShouldBeTrue)
			So(period.RenewalInDays, ShouldEqual, period.DaysRemaining)
		})
	})

	Convey("Given a month-end activation several periods back", t, func() {
		activated := date(2024, 1, 31)
		period := CalculateBillingPeriod(&activated, Monthly, date(2024, 5, 15))

		Convey("boundaries are measured from the activation date", func() {
			So(ymd(period.Start), ShouldEqual, "2024-05-01")
			So(ymd(period.End), ShouldEqual, "2024-05-31")
			So(period.TotalDays, ShouldEqual, 30)
		})
	})

	Convey("Given an annual service activated today", t, func() {
		activated := now
		period := CalculateBillingPeriod(&activated, Annually, now)

		So(period.ProgressPercent, ShouldEqual, 0)
		So(period.DaysRemaining, ShouldEqual, 365)
		So(ymd(period.End), ShouldEqual, "2025-06-20")
	})
}

func TestSchedulingHints(t *testing.T) {
	Convey("Renewal urgency", t, func() {
		So(RenewalUrgency(0), ShouldEqual, UrgencyCritical)
		So(RenewalUrgency(3), ShouldEqual, UrgencyCritical)
		So(RenewalUrgency(4), ShouldEqual, UrgencyWarning)
		So(RenewalUrgency(7), ShouldEqual, UrgencyWarning)
		So(RenewalUrgency(8), ShouldEqual, UrgencyNormal)
	})

	Convey("Days since request and follow-up", t, func() {
		created := date(2024, 6, 1)

		So(DaysSinceRequest(created, created.Add(23*time.Hour)), ShouldEqual, 0)
		So(DaysSinceRequest(created, date(2024, 6, 5)), ShouldEqual, 4)
		So(DaysSinceRequest(created, date(2024, 5, 1)), ShouldEqual, 0)

		So(FollowUpFor(3), ShouldEqual, FollowUpNone)
		So(FollowUpFor(4), ShouldEqual, FollowUpSuggest)
		So(FollowUpFor(7), ShouldEqual, FollowUpSuggest)
		So(FollowUpFor(8), ShouldEqual, FollowUpOverdue)
	})
}
