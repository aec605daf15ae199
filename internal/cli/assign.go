package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tavara-care/internal/bootstrap"
	"tavara-care/internal/models"
	"tavara-care/internal/services/matcher"
)

var (
	assignFamily  string
	assignTrigger string
	assignKey     string
	assignAutoKey bool

	assignmentsFamily string
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Run an assignment pass for a family",
	Long: `Scores every complete caregiver for the family and assigns the best
match above the threshold. Without an idempotency key, repeated runs can
create separate assignments.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		key := assignKey
		if key == "" && assignAutoKey {
			key = uuid.NewString()
			fmt.Fprintf(cmd.ErrOrStderr(), "idempotency key: %s\n", key)
		}

		orchestrator := bootstrap.NewOrchestrator(ctx, cfg, store)
		result, err := orchestrator.AutoAssign(ctx, matcher.AutoAssignRequest{
			FamilyUserID:   assignFamily,
			TriggerType:    models.TriggerType(assignTrigger),
			IdempotencyKey: key,
		})
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), result)
	},
}

var assignmentsCmd = &cobra.Command{
	Use:   "assignments",
	Short: "List a family's assignments",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		assignments, err := store.Assignments().GetByFamily(ctx, assignmentsFamily)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), assignments)
	},
}

func init() {
	assignCmd.Flags().StringVar(&assignFamily, "family", "", "family user id")
	assignCmd.Flags().StringVar(&assignTrigger, "trigger", string(models.TriggerManual), "trigger type recorded on the assignment")
	assignCmd.Flags().StringVar(&assignKey, "idempotency-key", "", "reuse the assignment created with this key")
	assignCmd.Flags().BoolVar(&assignAutoKey, "auto-key", false, "generate an idempotency key and print it")
	_ = assignCmd.MarkFlagRequired("family")

	assignmentsCmd.Flags().StringVar(&assignmentsFamily, "family", "", "family user id")
	_ = assignmentsCmd.MarkFlagRequired("family")
}
