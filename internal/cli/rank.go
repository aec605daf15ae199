package cli

import (
	"github.com/spf13/cobra"

	"tavara-care/internal/bootstrap"
	"tavara-care/internal/services/matcher"
)

var (
	rankFamily   string
	rankBestOnly bool
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Show the ranked caregiver list for a family",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		cache, redisClient := bootstrap.MatchCache(ctx, cfg)
		if redisClient != nil {
			defer redisClient.Close()
		}

		presenter := matcher.NewPresenter(store, cache, cfg.CandidateLimit)
		matches, err := presenter.Matches(ctx, rankFamily, rankBestOnly)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), matches)
	},
}

func init() {
	rankCmd.Flags().StringVar(&rankFamily, "family", "", "family user id")
	rankCmd.Flags().BoolVar(&rankBestOnly, "best-only", false, "show only the best match")
	_ = rankCmd.MarkFlagRequired("family")
}
