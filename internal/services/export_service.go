package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/fertitrack/internal/models"
)

const (
	exportFilePrefix   = "fertitrack"
	reportRecentCycles = 10
)

var ExportCSVHeaders = []string{
	"Start Date",
	"End Date",
	"Period Length",
	"Flow",
	"Symptoms",
	"Notes",
}

type ExportRecordReader interface {
	ListRecords(userID uint) ([]models.CycleRecord, error)
}

type ExportService struct {
	records ExportRecordReader
}

type ExportSummary struct {
	TotalRecords int    `json:"total_records"`
	HasData      bool   `json:"has_data"`
	DateFrom     string `json:"date_from"`
	DateTo       string `json:"date_to"`
}

func NewExportService(records ExportRecordReader) *ExportService {
	return &ExportService{records: records}
}

// LoadRecordsForRange returns the user's records, newest first, whose start
// date falls inside the optional inclusive range.
func (service *ExportService) LoadRecordsForRange(userID uint, from *time.Time, to *time.Time) ([]models.CycleRecord, error) {
	records, err := service.records.ListRecords(userID)
	if err != nil {
		return nil, err
	}

	filtered := make([]models.CycleRecord, 0, len(records))
	for _, record := range records {
		start := CalendarDate(record.StartDate)
		if from != nil && start.Before(CalendarDate(*from)) {
			continue
		}
		if to != nil && start.After(CalendarDate(*to)) {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered, nil
}

func (service *ExportService) BuildSummary(userID uint, from *time.Time, to *time.Time) (ExportSummary, error) {
	records, err := service.LoadRecordsForRange(userID, from, to)
	if err != nil {
		return ExportSummary{}, err
	}
	if len(records) == 0 {
		return ExportSummary{}, nil
	}

	first := CalendarDate(records[0].StartDate)
	last := first
	for _, record := range records[1:] {
		start := CalendarDate(record.StartDate)
		if start.Before(first) {
			first = start
		}
		if start.After(last) {
			last = start
		}
	}

	return ExportSummary{
		TotalRecords: len(records),
		HasData:      true,
		DateFrom:     FormatCalendarDate(first),
		DateTo:       FormatCalendarDate(last),
	}, nil
}

func (service *ExportService) BuildCSV(userID uint, from *time.Time, to *time.Time) ([]byte, error) {
	records, err := service.LoadRecordsForRange(userID, from, to)
	if err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)
	if err := writer.Write(ExportCSVHeaders); err != nil {
		return nil, err
	}
	for _, record := range records {
		if err := writer.Write(CSVColumns(record)); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buffer.Bytes(), nil
}

func (service *ExportService) BuildReport(user models.User, today time.Time) (string, error) {
	records, err := service.records.ListRecords(user.ID)
	if err != nil {
		return "", err
	}
	return RenderReport(user, records, today), nil
}

func CSVColumns(record models.CycleRecord) []string {
	endDate := ""
	if record.EndDate != nil {
		endDate = FormatCalendarDate(CalendarDate(*record.EndDate))
	}
	periodLength := ""
	if record.PeriodLength != nil {
		periodLength = strconv.Itoa(*record.PeriodLength)
	}

	return []string{
		FormatCalendarDate(CalendarDate(record.StartDate)),
		endDate,
		periodLength,
		record.Flow,
		strings.Join(record.Symptoms, "; "),
		record.Notes,
	}
}

// RenderReport expects records newest first.
func RenderReport(user models.User, records []models.CycleRecord, today time.Time) string {
	var builder strings.Builder

	builder.WriteString("FERTITRACK REPORT\n")
	fmt.Fprintf(&builder, "Generated: %s\n", FormatCalendarDate(CalendarDate(today)))
	fmt.Fprintf(&builder, "User: %s\n", reportUserName(user))
	builder.WriteString("\nCYCLE SUMMARY:\n")
	fmt.Fprintf(&builder, "- Total cycles tracked: %d\n", len(records))
	fmt.Fprintf(&builder, "- Typical cycle length: %d days\n", user.TypicalCycleLength)
	fmt.Fprintf(&builder, "- Typical period length: %d days\n", user.TypicalPeriodLength)
	builder.WriteString("\nRECENT CYCLES:\n")

	recent := records
	if len(recent) > reportRecentCycles {
		recent = recent[:reportRecentCycles]
	}
	for _, record := range recent {
		builder.WriteString(reportCycleLine(record))
		builder.WriteString("\n")
	}
	return builder.String()
}

func reportCycleLine(record models.CycleRecord) string {
	endDate := "Ongoing"
	if record.EndDate != nil {
		endDate = FormatCalendarDate(CalendarDate(*record.EndDate))
	}
	periodLength := "?"
	if record.PeriodLength != nil {
		periodLength = strconv.Itoa(*record.PeriodLength)
	}
	flow := record.Flow
	if flow == "" {
		flow = flowUnknown
	}
	return fmt.Sprintf("%s - %s (%s days, %s flow)",
		FormatCalendarDate(CalendarDate(record.StartDate)),
		endDate,
		periodLength,
		flow,
	)
}

func reportUserName(user models.User) string {
	if name := user.FullName(); name != "" {
		return name
	}
	return user.Email
}

func ExportFileName(kind string, extension string, today time.Time) string {
	return fmt.Sprintf("%s-%s-%s.%s", exportFilePrefix, kind, FormatCalendarDate(CalendarDate(today)), extension)
}
