package cli

import (
	"github.com/spf13/cobra"

	"trivia-rounds/internal/logging"
)

// NewResetCmd deletes the persisted game record.
func NewResetCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored game state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			logging.Bootstrap(cfg.Log.Level)

			repo, closeStore, err := openStateRepository(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := repo.Delete(cmd.Context()); err != nil {
				return err
			}
			logging.Log.WithField("namespace", cfg.Game.Namespace).Info("game state deleted")
			return nil
		},
	}
}
