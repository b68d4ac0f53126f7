package domain

import "time"

// DashboardStats is derived on every request and never stored
type DashboardStats struct {
	TotalUsers      int64
	AlertsSent      int64
	RepliesReceived int64
	DeliveryRate    float64
	Period          Period
}

// Period bounds the alerts a stats computation covers
type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod accepts "", all, today, week or month
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodToday, PeriodWeek, PeriodMonth:
		return Period(s), nil
	}
	return "", ErrInvalidFilter.WithMessage("unknown period %q (supported: all, today, week, month)", s)
}

// Since returns the inclusive lower bound of the period relative to now,
// or the zero time for PeriodAll
func (p Period) Since(now time.Time) time.Time {
	now = now.UTC()
	switch p {
	case PeriodToday:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodMonth:
		return now.AddDate(0, -1, 0)
	}
	return time.Time{}
}

// StatsCounts are the raw aggregates a stats repository returns
type StatsCounts struct {
	ActiveRecipients int64
	Alerts           int64
	Logs             int64
	Delivered        int64
	Replies          int64
}
