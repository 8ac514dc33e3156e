// Package cli provides the interactive covy command-line client.
//
// It wires configuration, the local session database, the API client and
// the view components, then drives them from a REPL. The terminal plays
// the part of every presenter: Presenter draws sections, Console prints
// alerts and asks confirmations.
//
// Key features:
//   - Login / Logout (accounts are created on first login)
//   - Edit the CV profile
//   - Generate, view, edit, export and delete cover letters
//   - Browse the cover letter history
//   - Online indicator in the prompt, fed by a background health check
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
