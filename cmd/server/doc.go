// Package main is the entry point for the quote logger service.
//
// The service sits between a capture client embedded in a freight-bidding
// portal and a remote spreadsheet-style sink that stores the quote log.
//
// Architecture:
//
//	Capture client (browser) → Quote Logger → Sink (append/patch/fetch)
//
// The server provides:
//   - Capture endpoint extracting accepted-load rows from raw page HTML
//   - Recent-loads view with minimal-diff saving
//   - Debounced, last-write-wins search with win-rate statistics
//   - Rate limiting and Prometheus metrics
//
// Configuration:
//   - Environment variables (12-factor)
//   - Defaults for development
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
