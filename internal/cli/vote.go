package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"uvote-cli/internal/session"
	"uvote-cli/internal/workflow"
)

var voteCmd = &cobra.Command{
	Use:   "vote <pollID> <optionID>",
	Short: "Cast a vote",
	Long: `Cast a vote in an open poll. The backend allows one vote per user
per poll; repeating a vote reports "ya has votado".`,
	Args: cobra.ExactArgs(2),
	RunE: runVote,
}

var resultsCmd = &cobra.Command{
	Use:   "results <pollID>",
	Short: "Show aggregated results (owner only)",
	Args:  cobra.ExactArgs(1),
	RunE:  runResults,
}

func init() {
	rootCmd.AddCommand(voteCmd)
	rootCmd.AddCommand(resultsCmd)
}

func runVote(cmd *cobra.Command, args []string) error {
	pollID, err := parseID(args[0])
	if err != nil {
		return err
	}
	optionID, err := parseID(args[1])
	if err != nil {
		return err
	}

	flow := workflow.NewPollFlow(client, store, guard, log)

	// The guard runs inside the flow too, but checking before the load
	// avoids fetching a poll we will refuse to vote on.
	if err := requireAuth(fmt.Sprintf("vote %d %d", pollID, optionID)); err != nil {
		return err
	}

	if err := flow.LoadPoll(cmd.Context(), pollID); err != nil {
		return err
	}

	if _, err := flow.CastVote(cmd.Context(), optionID); err != nil {
		if errors.Is(err, session.ErrLoginRequired) {
			return err
		}
		switch workflow.ClassifyVoteError(err) {
		case workflow.VoteRejectedAlreadyVoted:
			fmt.Println("Ya has votado en esta encuesta.")
		case workflow.VoteRejectedClosed:
			fmt.Println("Encuesta cerrada.")
		case workflow.VoteRejectedPending:
			fmt.Println("La encuesta aún no inicia.")
		case workflow.VoteRejectedNotFound:
			fmt.Println("La encuesta o la opción no existe.")
		default:
			fmt.Println("No se pudo registrar el voto.")
		}
		return err
	}

	fmt.Println("Voto registrado.")
	return nil
}

func runResults(cmd *cobra.Command, args []string) error {
	pollID, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := requireAuth(fmt.Sprintf("results %d", pollID)); err != nil {
		return err
	}

	flow := workflow.NewPollFlow(client, store, guard, log)
	if err := flow.LoadPoll(cmd.Context(), pollID); err != nil {
		return err
	}

	summary, err := flow.LoadResults(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Resultados de: %s\n", flow.Poll().Name)
	fmt.Printf("Total de votos: %d\n", summary.TotalVotes)
	for _, row := range summary.Rows {
		fmt.Printf("  %-30s %5d  (%d%%)\n", row.OptionName, row.Votes, row.Percentage)
	}
	return nil
}
