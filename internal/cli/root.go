package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andywolf/issuecast/internal/config"
	"github.com/andywolf/issuecast/internal/logging"
	"github.com/andywolf/issuecast/internal/version"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	logger  = logging.Nop()

	loadDotEnv = godotenv.Load
)

var rootCmd = &cobra.Command{
	Use:   "issuecast",
	Short: "issuecast - send a Linear issue to a web coding agent",
	Long: `issuecast fetches a Linear issue, lets you add sub-issue and monorepo
context, and pastes the result into the chat page of a Chrome instance
running with remote debugging.

The Linear API key is read from the LINEAR_API_KEY environment variable
(a .env file in the current directory is loaded first).

Example:
  issuecast send ENG-123
  issuecast send ENG-123 --action ask --comments`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.New(logging.Options{
			Verbose: viper.GetBool("verbose"),
			Writer:  cmd.ErrOrStderr(),
			GCP:     viper.GetBool("logging.gcp"),
			RunID:   uuid.NewString(),
			Labels:  map[string]string{"command": cmd.Name()},
		})
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file: " + used)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Set version for --version flag
	rootCmd.Version = version.Short()
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .issuecast.yaml, then $HOME/.issuecast.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	// A missing .env is the normal case.
	_ = loadDotEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error getting working directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(cwd)
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(configName)
	}

	viper.SetEnvPrefix("ISSUECAST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("linear.api_key", config.TokenEnv)

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Warning: cannot read config %s: %v\n", filepath.Clean(cfgFile), err)
	}
}
