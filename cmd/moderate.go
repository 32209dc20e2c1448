package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/speedrun-tools/srcom/srcom"
)

var (
	rejectReason string
	noConfirm    bool
)

// verifyCmd marks a run as verified
var verifyCmd = &cobra.Command{
	Use:   "verify <run-id>",
	Short: "Mark a run as verified",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := client.UpdateRunStatus(cmd.Context(), args[0], srcom.StatusVerified, "")
		if err != nil {
			return err
		}
		logger.Info().Str("run_id", args[0]).Msg("run verified")
		return nil
	},
}

// rejectCmd marks a run as rejected
var rejectCmd = &cobra.Command{
	Use:   "reject <run-id>",
	Short: "Reject a run, optionally with a reason",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := client.UpdateRunStatus(cmd.Context(), args[0], srcom.StatusRejected, rejectReason)
		if err != nil {
			return err
		}
		logger.Info().Str("run_id", args[0]).Str("reason", rejectReason).Msg("run rejected")
		return nil
	},
}

// rmCmd deletes a run
var rmCmd = &cobra.Command{
	Use:   "rm <run-id>",
	Short: "Delete a run",
	Long:  `Delete a run from speedrun.com. There is no undo; a confirmation prompt guards the call unless --yes is given.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rejectCmd.Flags().StringVar(&rejectReason, "reason", "", "reason shown to the runner")
	rmCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "skip confirmation prompt")

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(rejectCmd)
	rootCmd.AddCommand(rmCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	runID := args[0]

	if !noConfirm {
		fmt.Printf("Delete run %s permanently? [y/N]: ", runID)
		var response string
		fmt.Scanln(&response)
		if strings.ToLower(strings.TrimSpace(response)) != "y" {
			logger.Info().Msg("deletion cancelled")
			return nil
		}
	}

	if _, err := client.DeleteRun(cmd.Context(), runID); err != nil {
		return err
	}
	logger.Info().Str("run_id", runID).Msg("run deleted")
	return nil
}
