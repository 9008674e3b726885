package services

import "time"

// HolidayService answers calendar questions for due-date adjustment.
// Pure date logic, no storage behind it.
type HolidayService struct{}

func NewHolidayService() *HolidayService {
	return &HolidayService{}
}

// IsWeekendOrHoliday reports whether the date falls on a Saturday, Sunday or
// a recognized public holiday.
func (s *HolidayService) IsWeekendOrHoliday(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return s.isPublicHoliday(date)
}

// NextBusinessDay walks forward one day at a time until the date is a
// business day. Returns date unchanged if it already is one.
func (s *HolidayService) NextBusinessDay(date time.Time) time.Time {
	next := date
	for s.IsWeekendOrHoliday(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Fixed-date holidays. Extend per locale as needed.
func (s *HolidayService) isPublicHoliday(date time.Time) bool {
	month, day := date.Month(), date.Day()

	if month == time.January && day == 1 {
		return true
	}
	if month == time.December && day == 25 {
		return true
	}
	return false
}
