package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Month is one of the twelve canonical English month names.
type Month string

const (
	January   Month = "January"
	February  Month = "February"
	March     Month = "March"
	April     Month = "April"
	May       Month = "May"
	June      Month = "June"
	July      Month = "July"
	August    Month = "August"
	September Month = "September"
	October   Month = "October"
	November  Month = "November"
	December  Month = "December"
)

// Months lists the canonical months in calendar order.
var Months = []Month{
	January, February, March, April, May, June,
	July, August, September, October, November, December,
}

// ParseMonth accepts a full or three-letter month name in any case.
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty month")
	}
	for _, m := range Months {
		name := string(m)
		if strings.EqualFold(s, name) || (len(s) == 3 && strings.EqualFold(s, name[:3])) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown month %q", s)
}

// Valid reports whether m is a canonical month name.
func (m Month) Valid() bool {
	for _, c := range Months {
		if m == c {
			return true
		}
	}
	return false
}

// Number returns the 1-based calendar number, or 0 for an invalid month.
func (m Month) Number() int {
	for i, c := range Months {
		if m == c {
			return i + 1
		}
	}
	return 0
}

// MonthFromNumber maps 1..12 to a Month.
func MonthFromNumber(n int) (Month, error) {
	if n < 1 || n > 12 {
		return "", fmt.Errorf("month number %d out of range", n)
	}
	return Months[n-1], nil
}

// PeriodLabel combines month and year into the wire label, e.g. "March 2026".
func PeriodLabel(m Month, year int) string {
	return fmt.Sprintf("%s %d", m, year)
}

// ParsePeriodLabel splits a "<Month> <Year>" label. A bare month name is
// accepted and returns year 0.
func ParsePeriodLabel(label string) (Month, int, error) {
	fields := strings.Fields(label)
	switch len(fields) {
	case 1:
		m, err := ParseMonth(fields[0])
		return m, 0, err
	case 2:
		m, err := ParseMonth(fields[0])
		if err != nil {
			return "", 0, err
		}
		year, err := strconv.Atoi(fields[1])
		if err != nil {
			return "", 0, fmt.Errorf("invalid year %q: %w", fields[1], err)
		}
		return m, year, nil
	default:
		return "", 0, fmt.Errorf("invalid period label %q", label)
	}
}
