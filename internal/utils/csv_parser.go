package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tavara-care/internal/models"
)

// CSVParser errors
var (
	ErrEmptyCSV       = errors.New("CSV content is empty")
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoDataRows     = errors.New("CSV file contains no data rows")
)

// RequiredColumns defines the columns that must be present in a roster CSV.
var RequiredColumns = []string{
	"user_id",
	"specialties",
	"years_of_experience",
	"hourly_rate",
	"available_shifts",
}

// ColumnAliases maps alternative column names to standard names.
var ColumnAliases = map[string]string{
	// user_id aliases
	"userid":       "user_id",
	"user id":      "user_id",
	"caregiver_id": "user_id",
	"caregiverid":  "user_id",
	"id":           "user_id",

	// name aliases
	"name":     "full_name",
	"fullname": "full_name",

	// email aliases
	"emailaddress":  "email",
	"email_address": "email",
	"mail":          "email",

	// specialties aliases
	"specialty":  "specialties",
	"care_types": "specialties",
	"caretypes":  "specialties",
	"skills":     "specialties",

	// experience aliases
	"experience":       "years_of_experience",
	"years":            "years_of_experience",
	"experience_years": "years_of_experience",
	"yoe":              "years_of_experience",

	// rate aliases
	"rate":        "hourly_rate",
	"hourlyrate":  "hourly_rate",
	"hourly rate": "hourly_rate",
	"pay_rate":    "hourly_rate",

	// shift aliases
	"shifts":        "available_shifts",
	"availability":  "available_shifts",
	"care_schedule": "available_shifts",
	"schedule":      "available_shifts",

	// completeness aliases
	"complete":          "profile_complete",
	"ready":             "profile_complete",
	"profile_completed": "profile_complete",
}

// CSVParser handles parsing of caregiver roster CSV files.
type CSVParser struct {
	columnMapping map[string]int
}

// NewCSVParser creates a new CSV parser instance.
func NewCSVParser() *CSVParser {
	return &CSVParser{
		columnMapping: make(map[string]int),
	}
}

// ParseCaregivers parses roster CSV content. Rows that fail to parse or
// validate are reported with their line number and skipped.
func (p *CSVParser) ParseCaregivers(r io.Reader) ([]*models.CaregiverCreate, []error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, []error{ErrEmptyCSV}
	}
	if err != nil {
		return nil, []error{fmt.Errorf("failed to read header: %w", err)}
	}

	if err := p.buildColumnMapping(header); err != nil {
		return nil, []error{err}
	}

	var caregivers []*models.CaregiverCreate
	var parseErrors []error
	lineNum := 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		row, err := p.parseRow(record)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		caregiver, err := row.ToCaregiverCreate()
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		caregivers = append(caregivers, caregiver)
	}

	if len(caregivers) == 0 {
		return nil, append([]error{ErrNoDataRows}, parseErrors...)
	}

	return caregivers, parseErrors
}

func (p *CSVParser) buildColumnMapping(header []string) error {
	p.columnMapping = make(map[string]int)

	for i, col := range header {
		normalized := strings.ToLower(strings.TrimSpace(col))
		if alias, ok := ColumnAliases[normalized]; ok {
			normalized = alias
		}
		p.columnMapping[normalized] = i
	}

	var missing []string
	for _, required := range RequiredColumns {
		if _, ok := p.columnMapping[required]; !ok {
			missing = append(missing, required)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return nil
}

func (p *CSVParser) parseRow(record []string) (*models.CSVCaregiverRow, error) {
	getValue := func(column string) string {
		idx, ok := p.columnMapping[column]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	years, err := parseFloat(getValue("years_of_experience"))
	if err != nil {
		return nil, fmt.Errorf("invalid years_of_experience: %w", err)
	}

	rate, err := parseFloat(getValue("hourly_rate"))
	if err != nil {
		return nil, fmt.Errorf("invalid hourly_rate: %w", err)
	}

	complete := true
	if raw := getValue("profile_complete"); raw != "" {
		complete, err = strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid profile_complete: %w", err)
		}
	}

	return &models.CSVCaregiverRow{
		UserID:            getValue("user_id"),
		FullName:          getValue("full_name"),
		Email:             getValue("email"),
		Specialties:       splitList(getValue("specialties")),
		YearsOfExperience: years,
		HourlyRate:        rate,
		AvailableShifts:   splitList(getValue("available_shifts")),
		ProfileComplete:   complete,
	}, nil
}

// splitList splits a multi-valued cell. Cells use ';' or '|' since ',' is
// the field separator.
func splitList(cell string) []string {
	fields := strings.FieldsFunc(cell, func(r rune) bool {
		return r == ';' || r == '|'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parseFloat parses a numeric cell. Blank cells are 0 since absent
// numerics default to zero throughout matching.
func parseFloat(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
