// Package notify writes formatted, colored status lines for the provisioning run.
//
// This package includes:
//   - [WriteMessage] for displaying messages with type-specific symbols and colors
//   - [Diagnosticf] for word-wrapped fatal diagnostics
//   - [StageSeparatingWriter] for automatic blank line insertion between steps
//
// Message types include success (✔), error (✗), warning (⚠), info (ℹ), activity (►),
// generate (✚), skip (↷), and title messages with customizable emojis.
package notify
