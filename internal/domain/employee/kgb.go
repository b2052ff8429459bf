package employee

import "sisnompeg_admin/internal/domain/calendar"

// The routine salary step and the rank eligibility check run on separate
// cycles.
const (
	SalaryStepYears      = 2
	RankEligibilityYears = 4

	// DueSoonDays is the window in which an upcoming due date is flagged.
	DueSoonDays = 30
)

// DueBucket classifies the distance to a salary-step due date.
type DueBucket string

const (
	BucketOverdue DueBucket = "terlewat"
	BucketToday   DueBucket = "hari ini"
	BucketSoon    DueBucket = "segera"
	BucketSafe    DueBucket = "aman"
)

// ClassifyDue maps a signed day count (due minus today) to a bucket.
func ClassifyDue(daysLeft int) DueBucket {
	switch {
	case daysLeft < 0:
		return BucketOverdue
	case daysLeft == 0:
		return BucketToday
	case daysLeft <= DueSoonDays:
		return BucketSoon
	default:
		return BucketSafe
	}
}

// NextSalaryStepDate returns the due date following due.
func NextSalaryStepDate(due calendar.Date) calendar.Date {
	return due.AddYears(SalaryStepYears)
}

// EligibilityStatus is the outcome of a rank eligibility check.
type EligibilityStatus string

const (
	Eligible    EligibilityStatus = "Layak"
	NotEligible EligibilityStatus = "Belum Layak"
)

// RankEligibleDate returns the first day a promotion can be considered.
func RankEligibleDate(tmt calendar.Date) calendar.Date {
	return tmt.AddYears(RankEligibilityYears)
}

// EligibilityOn reports whether eligibleDate has been reached on today.
func EligibilityOn(eligibleDate, today calendar.Date) EligibilityStatus {
	if !eligibleDate.After(today) {
		return Eligible
	}
	return NotEligible
}

// IsDue reports whether a salary step is due on today and not yet processed.
func (e *Employee) IsDue(today calendar.Date) bool {
	return !e.KGBBerikutnya.IsZero() && !e.KGBBerikutnya.After(today) && !e.KGBNotified
}
