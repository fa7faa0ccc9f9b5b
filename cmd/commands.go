package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quocvuong92/devos-ai/internal/render"
	"github.com/quocvuong92/devos-ai/internal/router"
	"github.com/quocvuong92/devos-ai/internal/settings"
)

// NewChatCmd creates the chat command
func NewChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start interactive chat session",
		Long: `Start an interactive chat session.

Requires OPENROUTER_API_KEY. Type !help inside the session for commands,
exit or Ctrl+D to leave.

Examples:
  devos-ai chat`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runInteractive()
		},
	}
}

// NewGitStatusCmd creates the git-status command
func NewGitStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "git-status [path]",
		Short: "Show git status and branch",
		Long: `Show the porcelain status and current branch of a repository.

Examples:
  devos-ai git-status
  devos-ai git-status ~/src/project`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := "."
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				path = args[0]
			}
			app.runAction(cmd.Context(), router.GitStatus{Path: path})
		},
	}
}

// NewOpenAppCmd creates the open-app command
func NewOpenAppCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "open-app <name>",
		Short: "Launch an application",
		Long: `Launch an application by name.

Uses "open -a" on macOS, "start" on Windows and the binary on PATH
elsewhere.

Examples:
  devos-ai open-app Safari
  devos-ai open-app firefox`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			app.runAction(cmd.Context(), router.Route(router.CmdOpen+" "+args[0]))
		},
	}
}

// NewKillAppCmd creates the kill-app command
func NewKillAppCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "kill-app <name>",
		Short: "Terminate an application by name",
		Long: `Terminate every process whose name matches exactly.

Examples:
  devos-ai kill-app firefox`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			app.runAction(cmd.Context(), router.Route(router.CmdKill+" "+args[0]))
		},
	}
}

// NewFindFilesCmd creates the find-files command
func NewFindFilesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "find-files <pattern> [dir]",
		Short: "Find files recursively by glob pattern",
		Long: `Find files below a directory whose names match a glob pattern.

Patterns may use ** to match across directories.

Examples:
  devos-ai find-files "*.md"
  devos-ai find-files "*_test.go" ./internal`,
		Args: cobra.RangeArgs(1, 2),
		Run: func(cmd *cobra.Command, args []string) {
			dir := "."
			if len(args) == 2 {
				dir = args[1]
			}
			app.runAction(cmd.Context(), router.FindFiles{Pattern: args[0], Dir: dir})
		},
	}
}

// NewWebSearchCmd creates the web-search command
func NewWebSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "web-search <query>",
		Short: "Search the web",
		Long: `Search the web and print the result links.

Uses Brave Search when BRAVE_API_KEY is set and DuckDuckGo otherwise.

Examples:
  devos-ai web-search "golang errgroup"`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			app.runAction(cmd.Context(), router.Route(router.CmdSearch+" "+strings.Join(args, " ")))
		},
	}
}

// NewFetchCmd creates the fetch command
func NewFetchCmd(app *App) *cobra.Command {
	var (
		output string
		temp   bool
	)
	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Print the text of a web page",
		Long: `Print the first 2000 characters of a web page's visible text.

With --output the text is written to a file instead; with --temp it is
written to a new temporary file whose path is printed.

Examples:
  devos-ai fetch go.dev/doc
  devos-ai fetch https://go.dev/doc --output doc.txt
  devos-ai fetch https://go.dev/doc --temp`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if output == "" && !temp {
				app.runAction(cmd.Context(), router.FetchPage{URL: args[0]})
				return
			}
			app.renderer.Render(app.fetchToFile(cmd, args[0], output, temp))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the page text to this file")
	cmd.Flags().BoolVar(&temp, "temp", false, "Write the page text to a new temporary file")
	cmd.MarkFlagsMutuallyExclusive("output", "temp")
	return cmd
}

func (app *App) fetchToFile(cmd *cobra.Command, url, output string, temp bool) render.Payload {
	text, err := app.fetcher.Fetch(cmd.Context(), url)
	if err != nil {
		return render.ErrorMessage{Err: err}
	}
	if temp {
		path, err := app.files.CreateTemp(text, ".txt")
		if err != nil {
			return render.ErrorMessage{Err: err}
		}
		return render.PlainText("Saved to " + path)
	}
	if err := app.files.Write(output, text); err != nil {
		return render.ErrorMessage{Err: err}
	}
	return render.PlainText("Saved to " + output)
}

// NewReadFileCmd creates the read-file command
func NewReadFileCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "read-file <path>",
		Short: "Show a file with syntax highlighting",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			app.runAction(cmd.Context(), router.ReadFile{Path: args[0]})
		},
	}
}

// NewConfigCmd creates the config command
func NewConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show settings",
		Long: fmt.Sprintf(`Show or change the persisted settings.

Keys: %s

Examples:
  devos-ai config
  devos-ai config set model openai/gpt-4o
  devos-ai config set theme dracula`, strings.Join(settings.Keys, ", ")),
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			app.runAction(cmd.Context(), router.ConfigQuery{})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change one setting",
		Args:      cobra.MinimumNArgs(2),
		ValidArgs: settings.Keys,
		Run: func(cmd *cobra.Command, args []string) {
			line := router.CmdConfig + " set " + strings.Join(args, " ")
			app.runAction(cmd.Context(), router.Route(line))
		},
	})
	return cmd
}
