package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"tavara-care/internal/models"
	"tavara-care/internal/services/matcher"
)

// render writes data in the format chosen by --output.
func render(w io.Writer, data interface{}) error {
	return renderAs(w, outputFmt, data)
}

func renderAs(w io.Writer, format string, data interface{}) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	case "table", "":
		return table(w, data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func table(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case []models.PresentedMatch:
		return matchesTable(w, v)
	case *matcher.AutoAssignResult:
		return assignResultDetail(w, v)
	case []models.Assignment:
		return assignmentsTable(w, v)
	case *seedSummary:
		return seedDetail(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func matchesTable(w io.Writer, matches []models.PresentedMatch) error {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No ready caregivers found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCAREGIVER\tNAME\tMATCH\tSHIFT\tDISPLAY\tRATE\tPREMIUM")
	fmt.Fprintln(tw, "-\t---------\t----\t-----\t-----\t-------\t----\t-------")

	for i, m := range matches {
		premium := ""
		if m.Display.IsPremium {
			premium = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
			i+1,
			truncate(m.CaregiverID, 20),
			truncate(m.FullName, 24),
			m.MatchScore,
			m.ShiftCompatibilityScore,
			m.Display.DisplayScore,
			m.HourlyRate,
			premium,
		)
	}

	return tw.Flush()
}

func assignResultDetail(w io.Writer, r *matcher.AutoAssignResult) error {
	fmt.Fprintf(w, "Family:      %s\n", r.FamilyUserID)
	fmt.Fprintf(w, "Outcome:     %s\n", r.Outcome)
	fmt.Fprintf(w, "Trigger:     %s\n", r.TriggerType)
	fmt.Fprintf(w, "Evaluated:   %d\n", r.TotalEvaluated)
	fmt.Fprintf(w, "Qualifying:  %d\n", len(r.Matches))

	if r.Top != nil {
		fmt.Fprintln(w, strings.Repeat("-", 40))
		fmt.Fprintf(w, "Assignment:  %s\n", r.AssignmentID)
		fmt.Fprintf(w, "Caregiver:   %s\n", r.Top.CaregiverID)
		fmt.Fprintf(w, "Score:       %.2f (shift %.2f)\n", r.Top.MatchScore, r.Top.ShiftCompatibilityScore)
		fmt.Fprintf(w, "Why:         %s\n", r.Top.Explanation)
		if r.Replayed {
			fmt.Fprintln(w, "Replayed:    existing assignment for idempotency key")
		}
	}
	return nil
}

func assignmentsTable(w io.Writer, assignments []models.Assignment) error {
	if len(assignments) == 0 {
		fmt.Fprintln(w, "No assignments found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCAREGIVER\tSTATUS\tTYPE\tSCORE\tTRIGGER\tCREATED")
	fmt.Fprintln(tw, "--\t---------\t------\t----\t-----\t-------\t-------")

	for _, a := range assignments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%s\t%s\n",
			truncate(a.ID, 36),
			truncate(a.CaregiverID, 20),
			a.Status,
			a.AssignmentType,
			a.MatchScore,
			a.TriggerType,
			a.CreatedAt.Format("2006-01-02 15:04"),
		)
	}

	return tw.Flush()
}

func seedDetail(w io.Writer, s *seedSummary) error {
	fmt.Fprintf(w, "Parsed:    %d\n", s.Parsed)
	fmt.Fprintf(w, "Inserted:  %d\n", s.Inserted)
	fmt.Fprintf(w, "Failed:    %d\n", s.Failed)
	for _, e := range s.Errors {
		fmt.Fprintf(w, "  - %s\n", e)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
