package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"uvote-cli/internal/api"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile",
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Edit your display name or bio",
	RunE:  runProfileUpdate,
}

func init() {
	profileUpdateCmd.Flags().String("nombre", "", "new display name")
	profileUpdateCmd.Flags().String("bio", "", "new bio")

	profileCmd.AddCommand(profileUpdateCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	if err := requireAuth("profile update"); err != nil {
		return err
	}

	username, _ := cmd.Flags().GetString("nombre")
	bio, _ := cmd.Flags().GetString("bio")
	if username == "" && bio == "" {
		return fmt.Errorf("nada que actualizar: usa --nombre o --bio")
	}

	user, err := client.UpdateUser(cmd.Context(), store.UserID(), api.UpdateUserRequest{
		Username: username,
		Bio:      bio,
	})
	if err != nil {
		return err
	}

	// The session keeps the profile it was issued with; re-login picks
	// up the new name in the stored copy.
	fmt.Printf("Perfil actualizado: %s\n", user.Username)
	if user.Bio != "" {
		fmt.Printf("Bio: %s\n", user.Bio)
	}
	return nil
}
