package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/quocvuong92/devos-ai/internal/api"
	"github.com/quocvuong92/devos-ai/internal/apperr"
	"github.com/quocvuong92/devos-ai/internal/config"
	"github.com/quocvuong92/devos-ai/internal/constants"
	"github.com/quocvuong92/devos-ai/internal/executor"
	"github.com/quocvuong92/devos-ai/internal/logging"
	"github.com/quocvuong92/devos-ai/internal/render"
	"github.com/quocvuong92/devos-ai/internal/router"
	"github.com/quocvuong92/devos-ai/internal/settings"
)

// App holds the application state shared by the REPL and the one-shot
// commands.
type App struct {
	cfg      *config.Config
	store    *settings.Store
	settings settings.Settings

	client  api.AIClient
	search  api.SearchClient
	fetcher api.Fetcher
	files   executor.FileSystem
	procs   executor.ProcessManager
	git     executor.GitClient

	renderer *render.Renderer
	logger   *logging.Logger

	out     io.Writer
	errOut  io.Writer
	verbose bool
}

// NewApp creates a new App instance with default configuration
func NewApp() *App {
	return &App{
		cfg:    config.NewConfig(),
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd(NewApp()).Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree around app.
func NewRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   constants.AppName + " [command-line]",
		Short: "An AI development assistant for your terminal",
		Long: `DevOS AI sends prompts to OpenRouter and runs local bang-commands:
process control, file search, git status and web search.

Without arguments it starts an interactive chat. A single argument is run
as one line of chat input and the program exits.

Examples:
  devos-ai                                 # Interactive chat
  devos-ai "Explain Go interfaces"
  devos-ai "!python read a CSV and sum a column"
  devos-ai "!find *.md"
  devos-ai git-status ~/src/project
  devos-ai config set temperature 0.2`,
		Version:       constants.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.init()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return app.runOnce(cmd.Context(), args[0])
			}
			return app.runInteractive()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.SetOut(app.out)
	rootCmd.SetErr(app.errOut)

	rootCmd.AddCommand(
		NewChatCmd(app),
		NewGitStatusCmd(app),
		NewOpenAppCmd(app),
		NewKillAppCmd(app),
		NewFindFilesCmd(app),
		NewWebSearchCmd(app),
		NewFetchCmd(app),
		NewReadFileCmd(app),
		NewConfigCmd(app),
	)
	return rootCmd
}

// init loads configuration and settings and builds the collaborators that
// are still unset. Tests pre-populate the fields they fake.
func (app *App) init() {
	app.cfg.Verbose = app.verbose
	cfgErr := app.cfg.Load()

	if app.logger == nil {
		level := logging.ParseLevel(app.cfg.LogLevel)
		if app.verbose {
			level = logging.LevelDebug
		}
		app.logger = logging.New(logging.Options{Level: level, Format: logging.FormatText, Output: app.errOut})
	}

	if app.store == nil {
		store, err := settings.NewStore(app.cfg.Model)
		if err != nil {
			app.logger.Warn("settings directory unavailable", logging.Fields{"error": err.Error()})
			store = settings.NewStoreAt(settings.FileName, app.cfg.Model)
		}
		app.store = store
	}
	s, err := app.store.Load()
	if err != nil {
		app.logger.Error("failed to load settings", err, logging.Fields{"path": app.store.Path()})
		s = settings.Default(app.cfg.Model)
	}
	app.settings = s

	if app.renderer == nil {
		app.renderer = render.New(app.out, app.errOut, render.DetectOptions(os.Stdout, s.Theme))
	} else {
		app.renderer.SetTheme(s.Theme)
	}
	if err != nil {
		app.renderer.Render(render.ErrorMessage{Err: err})
	}
	if cfgErr != nil {
		app.logger.Error("failed to load environment", cfgErr)
		app.renderer.Render(render.ErrorMessage{Err: apperr.New(apperr.Config, "", cfgErr)})
	}

	if app.search == nil {
		app.search = api.NewSearchClient(app.cfg)
	}
	if app.fetcher == nil {
		app.fetcher = api.NewPageFetcher(constants.MaxPageChars)
	}
	if app.files == nil {
		app.files = executor.NewFileTools()
	}
	if app.procs == nil {
		app.procs = executor.NewProcesses()
	}
	if app.git == nil {
		app.git = executor.NewGit()
	}

	app.logger.Debug("initialized", logging.Fields{
		"model":    app.settings.Model,
		"search":   app.cfg.SearchProvider,
		"settings": app.store.Path(),
	})
}

// completionClient returns the OpenRouter client, creating it on first use.
// Only prompts need an API key; local commands work without one.
func (app *App) completionClient() (api.AIClient, error) {
	if app.client != nil {
		return app.client, nil
	}
	if err := app.cfg.Validate(); err != nil {
		return nil, apperr.New(apperr.Config, "", err)
	}
	app.client = api.NewOpenRouterClient(app.cfg, app.logger)
	return app.client, nil
}

// runOnce routes and executes a single line, as if typed in the REPL.
func (app *App) runOnce(ctx context.Context, line string) error {
	action := router.Route(line)
	if needsCompletion(action) {
		if _, err := app.completionClient(); err != nil {
			app.renderer.Render(render.ErrorMessage{Err: err})
			return err
		}
	}
	app.runAction(ctx, action)
	return nil
}

// runAction executes action and renders the result. Interrupts cancel the
// action, not the process.
func (app *App) runAction(ctx context.Context, action router.Action) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	app.renderer.Render(app.execute(ctx, action))
}

func needsCompletion(action router.Action) bool {
	switch action.(type) {
	case router.FreeformPrompt, router.FileAnalysis:
		return true
	}
	return false
}
