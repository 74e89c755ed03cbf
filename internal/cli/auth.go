package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"uvote-cli/internal/api"
	"uvote-cli/internal/workflow"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the local session",
	Long: `Clear the persisted session. This is a local operation only: it
always succeeds, reachable backend or not.`,
	RunE: runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long: `Create an account. Registration does not log you in: a 6-digit
code is emailed to you, and the account stays pending until you confirm
it with 'uvote verify'.`,
	RunE: runRegister,
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Confirm an email with the 6-digit code",
	RunE:  runVerify,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().String("correo", "", "account email")
	loginCmd.Flags().String("contrasena", "", "account password (prompted when omitted)")

	registerCmd.Flags().String("nombre", "", "username")
	registerCmd.Flags().String("correo", "", "account email")
	registerCmd.Flags().String("contrasena", "", "password (prompted when omitted)")

	verifyCmd.Flags().String("correo", "", "email under verification")
	verifyCmd.Flags().String("codigo", "", "the 6-digit code")
	verifyCmd.Flags().Bool("reenviar", false, "request a fresh code instead of verifying")

	whoamiCmd.Flags().Bool("refrescar", false, "re-fetch the profile from the backend")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("correo")
	password, _ := cmd.Flags().GetString("contrasena")

	var err error
	if email == "" {
		if email, err = promptLine("Correo: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = promptLine("Contraseña: "); err != nil {
			return err
		}
	}

	flow := workflow.NewAuthFlow(client, store, log)
	if err := flow.Login(cmd.Context(), email, password); err != nil {
		if workflow.IsNotVerified(err) {
			fmt.Println("Tu cuenta aún no está verificada.")
			fmt.Printf("Ejecuta: uvote verify --correo %s\n", workflow.NormalizeEmail(email))
		}
		return err
	}

	user := store.User()
	fmt.Printf("Sesión iniciada como %s (%s)\n", user.Username, user.Email)

	if target := guard.ConsumeReturnTo(); target != "" {
		fmt.Printf("Ahora puedes volver a: uvote %s\n", target)
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	store.Logout()
	fmt.Println("Sesión cerrada.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	username, _ := cmd.Flags().GetString("nombre")
	email, _ := cmd.Flags().GetString("correo")
	password, _ := cmd.Flags().GetString("contrasena")

	var err error
	if username == "" {
		if username, err = promptLine("Nombre de usuario: "); err != nil {
			return err
		}
	}
	if email == "" {
		if email, err = promptLine("Correo: "); err != nil {
			return err
		}
	}

	confirm := password
	if password == "" {
		if password, err = promptLine("Contraseña: "); err != nil {
			return err
		}
		if confirm, err = promptLine("Confirmar contraseña: "); err != nil {
			return err
		}
	}

	flow := workflow.NewAuthFlow(client, store, log)
	user, err := flow.Register(cmd.Context(), username, email, password, confirm)
	if err != nil {
		return err
	}

	fmt.Printf("Cuenta creada para %s. Enviamos un código a %s.\n", user.Username, user.Email)
	fmt.Printf("Confírmalo con: uvote verify --correo %s\n", user.Email)
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("correo")
	code, _ := cmd.Flags().GetString("codigo")
	resend, _ := cmd.Flags().GetBool("reenviar")

	var err error
	if email == "" {
		if email, err = promptLine("Correo: "); err != nil {
			return err
		}
	}

	challenge := workflow.NewChallenge(client, log, email)
	defer challenge.Close()

	nextStep, err := challenge.SeedFromStatus(cmd.Context())
	if err != nil {
		return err
	}
	if nextStep == api.NextStepLogin {
		fmt.Println("Este correo ya está verificado. Puedes iniciar sesión.")
		return nil
	}

	if resend {
		if !challenge.CanResend() {
			fmt.Printf("Podrás reenviar el código en %d segundos.\n", challenge.Cooldown())
			return nil
		}
		if err := challenge.Resend(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Si el correo está registrado, enviamos un nuevo código.")
		return nil
	}

	if code == "" {
		if code, err = promptLine("Código de 6 dígitos: "); err != nil {
			return err
		}
	}

	challenge.SetCode(code)
	if err := challenge.Verify(cmd.Context()); err != nil {
		return err
	}

	fmt.Println("Correo verificado correctamente. Ya puedes iniciar sesión.")
	fmt.Printf("Ejecuta: uvote login --correo %s\n", challenge.Email())
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	if !store.IsAuthenticated() {
		fmt.Println("No hay sesión activa.")
		return nil
	}

	user := store.User()
	refresh, _ := cmd.Flags().GetBool("refrescar")
	if refresh {
		fresh, err := client.GetUserByUsername(cmd.Context(), user.Username)
		if err != nil {
			return err
		}
		user = fresh
	}

	fmt.Printf("Usuario:  %s\n", user.Username)
	fmt.Printf("Correo:   %s\n", user.Email)
	if user.Bio != "" {
		fmt.Printf("Bio:      %s\n", user.Bio)
	}
	if exp, ok := store.TokenExpiry(); ok {
		fmt.Printf("La sesión expira: %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}
