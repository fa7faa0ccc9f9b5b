// Package cmd implements the CLI commands for DevOS AI.
//
// # Architecture
//
// This package is organized into the following logical groups:
//
// ## Core CLI
//
//   - root.go: Main entry point, App struct, cobra root command and flags
//   - commands.go: One-shot subcommands (git-status, open-app, find-files, ...)
//   - dispatch.go: Turns a router.Action into a render.Payload
//
// ## Interactive Mode
//
//   - interactive.go: REPL session, completion and Ctrl+C/Ctrl+D handling
//
// # Key Components
//
// ## App
//
// The App struct holds the configuration, the persisted settings and one
// value per collaborator (completion client, search, fetcher, files,
// processes, git). It's created in Execute() and shared by every command.
// Collaborators are interfaces so tests can replace them.
//
// ## Turn
//
// Every input line, whether typed in the REPL or passed as an argument,
// goes through the same steps:
//   - router.Route classifies the line
//   - App.execute runs the action against one collaborator
//   - render.Renderer draws the resulting payload
//
// # Usage
//
//	// Main entry point
//	func main() {
//	    cmd.Execute()
//	}
package cmd
