package util

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// reportHour is the local hour by which CONAGUA has published the previous day's dam report.
const reportHour = 11

// NextReportDate predicts when the next CONAGUA daily report will be available.
// Reports are published every day, weekends included, by 11:00 Mexico City time.
// It returns that instant in UTC.
func NextReportDate(input time.Time) time.Time {
	loc, err := time.LoadLocation("America/Mexico_City")
	if err != nil {
		log.Errorf("Failed to load location 'America/Mexico_City': %v. Falling back to UTC-6.", err)
		loc = time.FixedZone("CST", -6*60*60)
	}
	nowMX := input.In(loc)

	next := time.Date(nowMX.Year(), nowMX.Month(), nowMX.Day(), reportHour, 0, 0, 0, loc)
	if nowMX.After(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next.UTC()
}

// ReportDay returns the Mexico City calendar date of t, at UTC midnight.
func ReportDay(t time.Time) time.Time {
	loc, err := time.LoadLocation("America/Mexico_City")
	if err != nil {
		loc = time.FixedZone("CST", -6*60*60)
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
