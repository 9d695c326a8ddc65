package services

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrExportFromDateInvalid = errors.New("export invalid from date")
	ErrExportToDateInvalid   = errors.New("export invalid to date")
	ErrExportRangeInvalid    = errors.New("export invalid range")
)

// ParseExportRange parses optional YYYY-MM-DD bounds. Empty input leaves the
// bound open.
func ParseExportRange(rawFrom string, rawTo string) (*time.Time, *time.Time, error) {
	from, err := parseOptionalCalendarDate(rawFrom)
	if err != nil {
		return nil, nil, ErrExportFromDateInvalid
	}
	to, err := parseOptionalCalendarDate(rawTo)
	if err != nil {
		return nil, nil, ErrExportToDateInvalid
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, ErrExportRangeInvalid
	}
	return from, to, nil
}

func parseOptionalCalendarDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parsed, err := ParseCalendarDate(raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
