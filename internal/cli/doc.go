// Package cli implements the command-line interface for schedule-watch.
//
// The cli package provides the Cobra-based entry point and the Pipeline that
// coordinates the scraper, store, and notifier packages for one monitoring
// run: fetch the table, short-circuit on an unchanged fingerprint, diff by
// key column, replace the persisted snapshot, and email the change report.
package cli
