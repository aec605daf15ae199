package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tavara-care/internal/models"
	"tavara-care/internal/utils"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import caregiver profiles from a roster CSV",
	Long: `Reads a caregiver roster CSV and upserts each row as a professional
profile. Required columns: user_id, specialties, years_of_experience,
hourly_rate, available_shifts. Multi-value cells use ';' or '|'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(seedFile)
		if err != nil {
			return fmt.Errorf("failed to open roster: %w", err)
		}
		defer f.Close()

		ctx := cmd.Context()
		store, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		summary, err := importRoster(ctx, f, store.Caregivers())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), summary)
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "roster CSV file")
	_ = seedCmd.MarkFlagRequired("file")
}

type rosterWriter interface {
	BulkUpsert(ctx context.Context, caregivers []*models.CaregiverCreate) (*models.BulkInsertResult, error)
}

// seedSummary reports one roster import.
type seedSummary struct {
	Parsed   int      `json:"parsed"`
	Inserted int      `json:"inserted"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

func importRoster(ctx context.Context, r io.Reader, writer rosterWriter) (*seedSummary, error) {
	caregivers, parseErrors := utils.NewCSVParser().ParseCaregivers(r)

	summary := &seedSummary{Parsed: len(caregivers), Failed: len(parseErrors)}
	for _, e := range parseErrors {
		summary.Errors = append(summary.Errors, e.Error())
	}
	if len(caregivers) == 0 {
		return summary, nil
	}

	result, err := writer.BulkUpsert(ctx, caregivers)
	if err != nil {
		return nil, fmt.Errorf("failed to import roster: %w", err)
	}

	summary.Inserted = result.InsertedCount
	summary.Failed += result.FailedCount
	summary.Errors = append(summary.Errors, result.Errors...)

	utils.GetLogger().Info("Roster imported",
		utils.Int("parsed", summary.Parsed),
		utils.Int("inserted", summary.Inserted),
		utils.Int("failed", summary.Failed))

	return summary, nil
}
