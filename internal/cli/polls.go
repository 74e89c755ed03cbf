package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"uvote-cli/internal/api"
	"uvote-cli/internal/workflow"
)

var pollsCmd = &cobra.Command{
	Use:   "polls",
	Short: "Browse and manage polls",
}

var pollsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all polls",
	RunE:  runPollsList,
}

var pollsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a poll and its options",
	Args:  cobra.ExactArgs(1),
	RunE:  runPollsGet,
}

var pollsMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List the polls you created",
	RunE:  runPollsMine,
}

var pollsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a poll",
	RunE:  runPollsCreate,
}

var pollsCloseCmd = &cobra.Command{
	Use:   "close <id>",
	Short: "Close a poll (owner only)",
	Args:  cobra.ExactArgs(1),
	RunE:  runPollsClose,
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Manage poll options (owner only)",
}

var optionsAddCmd = &cobra.Command{
	Use:   "add <pollID>",
	Short: "Add an option to a poll",
	Args:  cobra.ExactArgs(1),
	RunE:  runOptionsAdd,
}

var optionsRemoveCmd = &cobra.Command{
	Use:   "rm <optionID>",
	Short: "Delete an option",
	Args:  cobra.ExactArgs(1),
	RunE:  runOptionsRemove,
}

func init() {
	pollsCreateCmd.Flags().String("nombre", "", "poll name (required)")
	pollsCreateCmd.Flags().String("descripcion", "", "poll description")
	pollsCreateCmd.Flags().String("imagen", "", "image URL")
	pollsCreateCmd.Flags().String("inicio", "", "start time, RFC 3339")
	pollsCreateCmd.Flags().String("cierre", "", "end time, RFC 3339")
	_ = pollsCreateCmd.MarkFlagRequired("nombre")

	optionsAddCmd.Flags().String("nombre", "", "option name (required)")
	optionsAddCmd.Flags().String("descripcion", "", "option description")
	optionsAddCmd.Flags().String("imagen", "", "image URL")
	optionsAddCmd.Flags().Int("orden", 0, "display order")
	_ = optionsAddCmd.MarkFlagRequired("nombre")

	pollsCmd.AddCommand(pollsListCmd)
	pollsCmd.AddCommand(pollsMineCmd)
	pollsCmd.AddCommand(pollsGetCmd)
	pollsCmd.AddCommand(pollsCreateCmd)
	pollsCmd.AddCommand(pollsCloseCmd)

	optionsCmd.AddCommand(optionsAddCmd)
	optionsCmd.AddCommand(optionsRemoveCmd)

	rootCmd.AddCommand(pollsCmd)
	rootCmd.AddCommand(optionsCmd)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("identificador inválido: %q", raw)
	}
	return id, nil
}

func runPollsList(cmd *cobra.Command, args []string) error {
	polls, err := client.ListPolls(cmd.Context())
	if err != nil {
		return err
	}

	if len(polls) == 0 {
		fmt.Println("No hay encuestas todavía.")
		return nil
	}

	now := time.Now()
	for _, p := range polls {
		fmt.Printf("%6d  %-10s  %s\n", p.ID, p.Status(now), p.Name)
	}
	return nil
}

func runPollsMine(cmd *cobra.Command, args []string) error {
	if err := requireAuth("polls mine"); err != nil {
		return err
	}

	polls, err := client.ListPollsByCreator(cmd.Context(), store.UserID())
	if err != nil {
		return err
	}

	if len(polls) == 0 {
		fmt.Println("Aún no has creado encuestas.")
		return nil
	}

	now := time.Now()
	for _, p := range polls {
		fmt.Printf("%6d  %-10s  %s\n", p.ID, p.Status(now), p.Name)
	}
	return nil
}

func runPollsGet(cmd *cobra.Command, args []string) error {
	pollID, err := parseID(args[0])
	if err != nil {
		return err
	}

	flow := workflow.NewPollFlow(client, store, guard, log)
	if err := flow.LoadPoll(cmd.Context(), pollID); err != nil {
		return err
	}

	poll := flow.Poll()
	fmt.Printf("Encuesta #%d: %s [%s]\n", poll.ID, poll.Name, flow.Status())
	if poll.Description != "" {
		fmt.Println(poll.Description)
	}

	options := flow.Options()
	if len(options) == 0 {
		fmt.Println("Esta encuesta no tiene opciones todavía.")
		return nil
	}

	fmt.Println("Opciones:")
	for _, o := range options {
		if o.Order != nil {
			fmt.Printf("  %6d  #%d  %s\n", o.ID, *o.Order, o.Name)
		} else {
			fmt.Printf("  %6d      %s\n", o.ID, o.Name)
		}
	}
	return nil
}

func runPollsCreate(cmd *cobra.Command, args []string) error {
	if err := requireAuth("polls create"); err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("nombre")
	description, _ := cmd.Flags().GetString("descripcion")
	imageURL, _ := cmd.Flags().GetString("imagen")

	req := api.CreatePollRequest{
		Name:        name,
		Description: description,
		ImageURL:    imageURL,
	}

	if raw, _ := cmd.Flags().GetString("inicio"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("fecha de inicio inválida: %w", err)
		}
		req.StartAt = &t
	}
	if raw, _ := cmd.Flags().GetString("cierre"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("fecha de cierre inválida: %w", err)
		}
		req.EndAt = &t
	}

	poll, err := client.CreatePoll(cmd.Context(), req)
	if err != nil {
		return err
	}

	fmt.Printf("Encuesta creada: #%d %s\n", poll.ID, poll.Name)
	fmt.Printf("Agrega opciones con: uvote options add %d --nombre ...\n", poll.ID)
	return nil
}

func runPollsClose(cmd *cobra.Command, args []string) error {
	pollID, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := requireAuth(fmt.Sprintf("polls close %d", pollID)); err != nil {
		return err
	}

	poll, err := client.ClosePoll(cmd.Context(), pollID)
	if err != nil {
		return err
	}

	fmt.Printf("Encuesta #%d cerrada.\n", poll.ID)
	return nil
}

func runOptionsAdd(cmd *cobra.Command, args []string) error {
	pollID, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := requireAuth(fmt.Sprintf("options add %d", pollID)); err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("nombre")
	description, _ := cmd.Flags().GetString("descripcion")
	imageURL, _ := cmd.Flags().GetString("imagen")

	req := api.CreateOptionRequest{
		Name:        name,
		Description: description,
		ImageURL:    imageURL,
	}
	if cmd.Flags().Changed("orden") {
		order, _ := cmd.Flags().GetInt("orden")
		req.Order = &order
	}

	option, err := client.CreateOption(cmd.Context(), pollID, req)
	if err != nil {
		return err
	}

	fmt.Printf("Opción creada: #%d %s\n", option.ID, option.Name)
	return nil
}

func runOptionsRemove(cmd *cobra.Command, args []string) error {
	optionID, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := requireAuth(fmt.Sprintf("options rm %d", optionID)); err != nil {
		return err
	}

	if err := client.DeleteOption(cmd.Context(), optionID); err != nil {
		return err
	}

	fmt.Printf("Opción #%d eliminada.\n", optionID)
	return nil
}
