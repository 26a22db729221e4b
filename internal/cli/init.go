package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/andywolf/issuecast/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const configName = ".issuecast"

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the defaults",
	Long: `Write .issuecast.yaml in the current directory with every setting at its
default value, ready to customise.

The Linear API key is never written; keep it in LINEAR_API_KEY or point
linear.api_key_secret at a GCP Secret Manager secret.

Example:
  issuecast init
  issuecast init --force`,
	RunE: initProject,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("force", false, "Overwrite existing config")
}

type fileConfig struct {
	Linear struct {
		APIKeySecret string `yaml:"api_key_secret"`
		Endpoint     string `yaml:"endpoint"`
		Timeout      string `yaml:"timeout"`
	} `yaml:"linear"`
	Browser struct {
		Bin            string `yaml:"bin"`
		DebugAddress   string `yaml:"debug_address"`
		UserDataDir    string `yaml:"user_data_dir"`
		LaunchAttempts int    `yaml:"launch_attempts"`
		LaunchInterval string `yaml:"launch_interval"`
		SettleTimeout  string `yaml:"settle_timeout"`
		Timezone       string `yaml:"timezone"`
		Viewport       struct {
			MinWidth  int `yaml:"min_width"`
			MaxWidth  int `yaml:"max_width"`
			MinHeight int `yaml:"min_height"`
			MaxHeight int `yaml:"max_height"`
		} `yaml:"viewport"`
	} `yaml:"browser"`
	Target struct {
		URL            string `yaml:"url"`
		InputSelector  string `yaml:"input_selector"`
		ButtonSelector string `yaml:"button_selector"`
		Action         string `yaml:"action"`
	} `yaml:"target"`
	Logging struct {
		GCP bool `yaml:"gcp"`
	} `yaml:"logging"`
}

func newFileConfig(cfg *config.Config) fileConfig {
	var fc fileConfig
	fc.Linear.APIKeySecret = cfg.Linear.APIKeySecret
	fc.Linear.Endpoint = cfg.Linear.Endpoint
	fc.Linear.Timeout = cfg.Linear.Timeout.String()

	fc.Browser.Bin = cfg.Browser.Bin
	fc.Browser.DebugAddress = cfg.Browser.DebugAddress
	fc.Browser.UserDataDir = cfg.Browser.UserDataDir
	fc.Browser.LaunchAttempts = cfg.Browser.LaunchAttempts
	fc.Browser.LaunchInterval = cfg.Browser.LaunchInterval.String()
	fc.Browser.SettleTimeout = cfg.Browser.SettleTimeout.String()
	fc.Browser.Timezone = cfg.Browser.Timezone
	fc.Browser.Viewport.MinWidth = cfg.Browser.Viewport.MinWidth
	fc.Browser.Viewport.MaxWidth = cfg.Browser.Viewport.MaxWidth
	fc.Browser.Viewport.MinHeight = cfg.Browser.Viewport.MinHeight
	fc.Browser.Viewport.MaxHeight = cfg.Browser.Viewport.MaxHeight

	fc.Target.URL = cfg.Target.URL
	fc.Target.InputSelector = cfg.Target.InputSelector
	fc.Target.ButtonSelector = cfg.Target.ButtonSelector
	fc.Target.Action = cfg.Target.Action

	fc.Logging.GCP = cfg.Logging.GCP
	return fc
}

func initProject(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	configPath := filepath.Join(".", configName+".yaml")

	if err := writeConfigFile(configPath, config.Default(), force); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n\n", configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. export "+config.TokenEnv+"=<your Linear personal API key>")
	fmt.Fprintln(out, "  2. Adjust browser.bin if Chrome lives elsewhere")
	fmt.Fprintln(out, "  3. Run 'issuecast send ENG-123'")
	return nil
}

func writeConfigFile(path string, cfg *config.Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	data, err := yaml.Marshal(newFileConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := `# issuecast configuration
# The Linear API key is read from LINEAR_API_KEY. Set linear.api_key_secret
# to a GCP Secret Manager secret to fetch it from there instead.
# target.action: code, ask or none; leave empty to be asked each time.

`

	if err := os.WriteFile(path, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
