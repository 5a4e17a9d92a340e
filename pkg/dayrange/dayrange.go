package dayrange

import (
	"time"

	pkgerrors "github.com/harborline/slopchest-backend/pkg/errors"
)

// Layout is the calendar-day form used by every date-range query surface.
const Layout = "2006-01-02"

// Parse converts an inclusive [start, end] pair of calendar days into a
// half-open [from, to) timestamp window in local time, which is how the
// store's business day is reckoned.
func Parse(start, end string) (time.Time, time.Time, error) {
	from, err := time.ParseInLocation(Layout, start, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid start date")
	}
	last, err := time.ParseInLocation(Layout, end, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid end date")
	}
	to := last.AddDate(0, 0, 1)
	if to.Before(from) {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "end date precedes start date")
	}
	return from, to, nil
}

// Day formats a timestamp as its local calendar day.
func Day(t time.Time) string {
	return t.Local().Format(Layout)
}
