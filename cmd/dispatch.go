package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/quocvuong92/devos-ai/internal/api"
	"github.com/quocvuong92/devos-ai/internal/apperr"
	"github.com/quocvuong92/devos-ai/internal/logging"
	"github.com/quocvuong92/devos-ai/internal/render"
	"github.com/quocvuong92/devos-ai/internal/router"
	"github.com/quocvuong92/devos-ai/internal/settings"
)

// Prompt text sent to the model.
const (
	analyzePrompt  = "Analyze this file:\n```\n%s\n```"
	languagePrompt = "Answer with %s code in fenced code blocks."
)

const msgEmptyResponse = "Received empty response from AI"

// configLabels are the display names of the settings keys, in Keys order.
var configLabels = map[string]string{
	settings.KeyModel:       "Model",
	settings.KeyTheme:       "Theme",
	settings.KeyMaxTokens:   "Max Tokens",
	settings.KeyTemperature: "Temperature",
}

// execute resolves one action into a payload. Exit and NoOp produce nil.
// Every collaborator failure comes back as an ErrorMessage.
func (app *App) execute(ctx context.Context, action router.Action) render.Payload {
	app.logger.Debug("dispatch", logging.Fields{"action": fmt.Sprintf("%T", action)})

	switch a := action.(type) {
	case router.Exit, router.NoOp:
		return nil
	case router.Help:
		return render.HelpPayload()
	case router.Invalid:
		return render.ErrorMessage{Err: a.Err}
	case router.ShowRunningApps:
		return app.showApps(ctx)
	case router.ConfigQuery:
		return app.configQuery()
	case router.ConfigSet:
		return app.configSet(a)
	case router.GitStatus:
		return app.gitStatus(ctx, a.Path)
	case router.OpenApp:
		if err := app.procs.Open(ctx, a.Name); err != nil {
			return render.ErrorMessage{Err: err}
		}
		return render.PlainText("Opened " + a.Name)
	case router.KillApp:
		n, err := app.procs.Kill(ctx, a.Name)
		if err != nil {
			return render.ErrorMessage{Err: err}
		}
		if n == 1 {
			return render.PlainText("Terminated " + a.Name)
		}
		return render.PlainText(fmt.Sprintf("Terminated %s (%d processes)", a.Name, n))
	case router.FindFiles:
		return app.findFiles(ctx, a.Pattern, a.Dir)
	case router.WebSearch:
		return app.webSearch(ctx, a.Query)
	case router.FetchPage:
		text, err := app.fetcher.Fetch(ctx, a.URL)
		if err != nil {
			return render.ErrorMessage{Err: err}
		}
		return render.PlainText(text)
	case router.ReadFile:
		return app.readFile(a.Path)
	case router.FileAnalysis:
		content, err := app.files.Read(a.Path)
		if err != nil {
			return render.ErrorMessage{Err: err}
		}
		return app.ask(ctx, fmt.Sprintf(analyzePrompt, content), "")
	case router.FreeformPrompt:
		return app.ask(ctx, a.Text, a.Language)
	}
	return render.ErrorMessage{Err: apperr.Errorf(apperr.Unknown, "unhandled action %T", action)}
}

func (app *App) showApps(ctx context.Context) render.Payload {
	procs, err := app.procs.List(ctx)
	if err != nil {
		return render.ErrorMessage{Err: err}
	}
	items := make([]string, len(procs))
	for i, p := range procs {
		items[i] = fmt.Sprintf("%s (PID: %d, User: %s)", p.Name, p.PID, p.User)
	}
	return render.Lines{
		Title:    "Running applications:",
		Items:    items,
		Numbered: true,
		Empty:    "No running applications found",
	}
}

func (app *App) configQuery() render.Payload {
	fields := make([]render.Field, 0, len(settings.Keys))
	for _, k := range settings.Keys {
		v, _ := app.settings.Get(k)
		fields = append(fields, render.Field{Label: configLabels[k], Value: v})
	}
	return render.KeyValueBlock{Title: "Current Configuration", Fields: fields}
}

// configSet applies, persists and only then adopts the new settings, so a
// failed save leaves the session unchanged.
func (app *App) configSet(a router.ConfigSet) render.Payload {
	if a.Key == settings.KeyTheme {
		if theme, _ := a.Value.(string); !render.IsTheme(theme) {
			return render.ErrorMessage{Err: apperr.Errorf(apperr.InvalidArgument,
				"Unknown theme: %s. Press Tab after !config set theme to list themes", theme)}
		}
	}

	next, err := app.settings.With(a.Key, a.Value)
	if err != nil {
		return render.ErrorMessage{Err: err}
	}
	if err := app.store.Save(next); err != nil {
		return render.ErrorMessage{Err: err}
	}
	app.settings = next
	if a.Key == settings.KeyTheme {
		app.renderer.SetTheme(next.Theme)
	}

	v, _ := next.Get(a.Key)
	app.logger.Info("settings updated", logging.Fields{"key": a.Key, "value": v})
	return render.PlainText(fmt.Sprintf("Updated %s to %s", a.Key, v))
}

func (app *App) gitStatus(ctx context.Context, path string) render.Payload {
	status, err := app.git.Status(ctx, path)
	if err != nil {
		return render.ErrorMessage{Err: err}
	}
	branch := status.Branch
	if branch == "" {
		branch = "(detached)"
	}
	changes := "clean"
	if !status.Clean() {
		changes = "\n" + strings.Join(status.Changes, "\n")
	}
	return render.KeyValueBlock{
		Title: fmt.Sprintf("Git status for %s:", path),
		Fields: []render.Field{
			{Label: "Branch", Value: branch},
			{Label: "Changes", Value: changes},
		},
	}
}

func (app *App) findFiles(ctx context.Context, pattern, dir string) render.Payload {
	res, err := app.files.Find(ctx, pattern, dir)
	if err != nil {
		return render.ErrorMessage{Err: err}
	}
	lines := render.Lines{
		Title: "Found files:",
		Items: res.Paths,
		Empty: "No files matching " + pattern,
	}
	if res.Truncated() {
		lines.Footer = fmt.Sprintf("(showing first %d of %d matches)", len(res.Paths), res.Total)
	}
	return lines
}

func (app *App) webSearch(ctx context.Context, query string) render.Payload {
	stop := app.renderer.StartSpinner("Searching...")
	resp, err := app.search.Search(ctx, query)
	stop()
	if err != nil {
		return render.ErrorMessage{Err: err}
	}
	return render.Lines{
		Title:    "Web results:",
		Items:    resp.URLs(),
		Numbered: true,
		Empty:    "No results for " + query,
	}
}

func (app *App) readFile(path string) render.Payload {
	content, err := app.files.Read(path)
	if err != nil {
		return render.ErrorMessage{Err: err}
	}
	title := fmt.Sprintf("%s (%s)", filepath.Base(path), humanize.Bytes(uint64(len(content))))
	return render.CodeBlock{
		Title:    title,
		Language: render.LanguageForPath(path),
		Code:     content,
	}
}

// ask sends one prompt with the current settings. A language marker adds a
// system prompt asking for fenced code in that language.
func (app *App) ask(ctx context.Context, prompt, language string) render.Payload {
	client, err := app.completionClient()
	if err != nil {
		return render.ErrorMessage{Err: err}
	}

	req := api.CompletionRequest{
		UserPrompt:  prompt,
		Model:       app.settings.Model,
		MaxTokens:   app.settings.MaxTokens,
		Temperature: app.settings.Temperature,
	}
	if language != "" {
		req.SystemPrompt = fmt.Sprintf(languagePrompt, language)
	}

	stop := app.renderer.StartSpinner("Processing...")
	resp, err := client.Complete(ctx, req)
	stop()
	if err != nil {
		return render.ErrorMessage{Err: err}
	}

	app.logger.Debug("completion", logging.Fields{"model": req.Model, "usage": resp.GetUsageMap()})

	content := resp.GetContent()
	if content == "" {
		return render.ErrorMessage{Err: apperr.Errorf(apperr.Transport, msgEmptyResponse)}
	}
	return render.MixedMarkdownCode{Text: content, Language: language}
}
