package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"uvote-cli/internal/api"
	"uvote-cli/internal/config"
	"uvote-cli/internal/session"
	"uvote-cli/pkg/logger"
)

var (
	cfg    *config.Config
	log    *logger.Logger
	store  *session.Store
	guard  *session.Guard
	client *api.Client
)

var rootCmd = &cobra.Command{
	Use:   "uvote",
	Short: "Client for the UVote poll service",
	Long: `uvote is a command-line client for the UVote poll service.

Log in once and the session is kept on disk; every later command reuses
it until you log out or the token expires.

Examples:
  uvote register --nombre ale --correo ale@example.com
  uvote verify --correo ale@example.com --codigo 123456
  uvote login --correo ale@example.com
  uvote polls list
  uvote vote 12 34
  uvote results 12`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initApp,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "base URL of the UVote API")
	rootCmd.PersistentFlags().String("session-file", "", "path of the persisted session")
	rootCmd.PersistentFlags().String("log-level", "", "log verbosity (debug, info, warn, error)")

	_ = viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("session_file", rootCmd.PersistentFlags().Lookup("session-file"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.SetEnvPrefix("UVOTE")
	viper.AutomaticEnv()
}

// initApp wires config, logger, session and API client before any
// command runs. Session restore happens here so no command ever sees a
// half-initialized store.
func initApp(cmd *cobra.Command, args []string) error {
	if dir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(dir, "uvote"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		_ = viper.ReadInConfig()
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if v := viper.GetString("api_url"); v != "" {
		cfg.APIURL = v
	}
	if v := viper.GetString("session_file"); v != "" {
		cfg.SessionFile = v
	}
	if v := viper.GetString("log_level"); v != "" {
		cfg.LogLevel = v
	}

	log, err = logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	store = session.NewStore(cfg.SessionFile, log)
	store.Restore()
	guard = session.NewGuard(store)

	client = api.New(cfg.APIURL, store, log,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithOnAuthExpired(func() {
			log.Warn("La sesión expiró, cerrando sesión local")
			store.Logout()
		}),
	)

	return nil
}

// promptLine reads one line from stdin after printing a label
func promptLine(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// requireAuth runs the guard for a command and prints the login hint on
// denial
func requireAuth(target string) error {
	if err := guard.Check(target); err != nil {
		fmt.Println("Debes iniciar sesión para continuar.")
		fmt.Printf("Ejecuta 'uvote login' y luego vuelve a intentar: uvote %s\n", target)
		return err
	}
	return nil
}
