package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andywolf/issuecast/internal/browser"
	"github.com/andywolf/issuecast/internal/cli/wizard"
	"github.com/andywolf/issuecast/internal/cloud/gcp"
	"github.com/andywolf/issuecast/internal/config"
	"github.com/andywolf/issuecast/internal/linear"
	"github.com/andywolf/issuecast/internal/logging"
	"github.com/andywolf/issuecast/internal/prompt"
	"github.com/andywolf/issuecast/internal/security"
	"github.com/andywolf/issuecast/internal/workspace"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const previewWidth = 100

var sendCmd = &cobra.Command{
	Use:   "send <identifier>",
	Short: "Fetch an issue and paste it into the chat page",
	Long: `Fetch a Linear issue by key (ENG-123) or UUID, review the compiled
prompt, and paste it into the target page of a remotely debuggable Chrome.

If no browser answers on the debug address, one is launched with a
persistent profile and left open afterwards.

Example:
  issuecast send ENG-123
  issuecast send ENG-123 --action none --raw
  issuecast send 2f6c0c1e-8c4b-4a8e-9f57-0d1f2a3b4c5d --comments`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().String("action", "", "Action to trigger: code, ask, or none (prompts when unset)")
	sendCmd.Flags().Bool("comments", false, "Append the issue's comments to the prompt")
	sendCmd.Flags().Bool("raw", false, "Print the preview without markdown rendering")
	sendCmd.Flags().String("url", "", "Override the target page URL")

	_ = viper.BindPFlag("target.action", sendCmd.Flags().Lookup("action"))
	_ = viper.BindPFlag("target.url", sendCmd.Flags().Lookup("url"))
}

// issueFetcher is the part of linear.Client used by send.
type issueFetcher interface {
	FetchIssue(ctx context.Context, identifier string) (*linear.Issue, error)
}

// operator answers both the compiler questions and the action choice.
type operator interface {
	prompt.Asker
	browser.Chooser
}

// sender holds everything one send needs, so the pipeline can run with fakes.
type sender struct {
	cfg      *config.Config
	fetcher  issueFetcher
	operator operator
	driver   browser.Driver
	log      *logging.Logger
	out      io.Writer
	workDir  string
	raw      bool
	comments bool
}

func runSend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := resolveCredential(ctx, cfg); err != nil {
		return err
	}
	if err := cfg.RequireCredential(); err != nil {
		return err
	}
	logger.AddSecret(cfg.Linear.APIKey)

	raw, _ := cmd.Flags().GetBool("raw")
	comments, _ := cmd.Flags().GetBool("comments")
	cwd, _ := os.Getwd()

	s := &sender{
		cfg: cfg,
		fetcher: linear.NewClient(cfg.Linear.APIKey,
			linear.WithEndpoint(cfg.Linear.Endpoint),
			linear.WithTimeout(cfg.Linear.Timeout),
			linear.WithLogger(logger),
		),
		operator: &wizard.HuhAsker{},
		driver:   browser.NewRodDriver(cfg.Browser, logger),
		log:      logger,
		out:      cmd.OutOrStdout(),
		workDir:  cwd,
		raw:      raw,
		comments: comments,
	}
	return s.send(ctx, args[0])
}

// resolveCredential reads the API key from Secret Manager when only a secret
// path is configured.
func resolveCredential(ctx context.Context, cfg *config.Config) error {
	var client *gcp.SecretManagerClient
	defer func() {
		if client != nil {
			_ = client.Close()
		}
	}()

	return cfg.ResolveCredential(ctx, func(ctx context.Context) (config.SecretFetcher, error) {
		c, err := gcp.NewSecretManagerClient(ctx)
		if err != nil {
			return nil, err
		}
		client = c
		return c, nil
	})
}

func (s *sender) send(ctx context.Context, identifier string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return fmt.Errorf("issue identifier is required")
	}

	issue, err := s.fetcher.FetchIssue(ctx, identifier)
	if err != nil {
		return err
	}

	compiler := &prompt.Compiler{
		Asker:           s.operator,
		Out:             s.out,
		IncludeComments: s.comments,
		Sensitive:       security.NewScrubber(s.cfg.Linear.APIKey).ContainsSensitive,
	}
	if ws := s.detectWorkspace(); ws != nil {
		compiler.Projects = ws.Names()
		compiler.CheckProject = func(project string) error {
			_, err := ws.ResolvePackagePath(project)
			return err
		}
	}
	if !s.raw {
		compiler.Render = prompt.MarkdownRenderer(previewWidth)
	}

	result, err := compiler.Run(issue)
	if err != nil {
		return err
	}
	if !result.Accepted {
		fmt.Fprintln(s.out, "Aborted. Nothing was sent.")
		return nil
	}

	session := &browser.Session{
		Driver: s.driver,
		Target: s.cfg.Target,
		Logger: s.log,
		Out:    s.out,
	}
	if s.cfg.Target.Action == "" {
		session.Chooser = s.operator
	}

	state, err := session.Run(ctx, result.Text)
	if err != nil {
		s.log.Debug("browser step failed", zap.Stringer("state", state), zap.Error(err))
		return err
	}

	fmt.Fprintf(s.out, "Sent %s to %s. The browser stays open for review.\n", issue.Identifier, s.cfg.Target.URL)
	return nil
}

// detectWorkspace detects a monorepo rooted at workDir. Nil when there is none.
func (s *sender) detectWorkspace() *workspace.Workspace {
	if s.workDir == "" {
		return nil
	}
	ws, err := workspace.Detect(s.workDir)
	if err != nil {
		s.log.Warn("ignoring unreadable workspace manifest", zap.Error(err))
		return nil
	}
	if ws != nil {
		s.log.Debug("workspace detected", zap.String("kind", string(ws.Kind)), zap.Int("packages", len(ws.Packages)))
	}
	return ws
}
