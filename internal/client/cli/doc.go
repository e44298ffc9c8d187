// Package cli provides the interactive homelights command-line client.
//
// It wires configuration, the credential database, the HTTP gateway, the
// session store and an interactive REPL. Typical flow: restore the saved
// session, show the dashboard, then execute user commands.
//
// Key features:
//   - Sign up / Log in / Log out
//   - Dashboard with a time-of-day greeting and the list of lights
//   - Profile editing
//   - Add / remove devices
//   - Debounced light control: toggle, brightness, color, all lights
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
