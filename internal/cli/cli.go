package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/pfrederiksen/schedule-watch/internal/config"
	"github.com/pfrederiksen/schedule-watch/internal/logger"
	"github.com/pfrederiksen/schedule-watch/internal/notifier"
	"github.com/pfrederiksen/schedule-watch/internal/scraper"
	"github.com/pfrederiksen/schedule-watch/internal/store"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagDryRun       bool
	flagSnapshotFile string
	flagFormat       string
	flagVerbose      bool
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule-watch",
		Short: "Monitor a public schedule page for row changes",
		Long: `Fetches one HTML table from a public schedule page, compares it against the
previously persisted snapshot, replaces the snapshot on real change, and emails
an HTML diff report. Intended to run once per invocation under an external
scheduler.`,
		SilenceUsage: true,
		RunE:         runCheck,
	}

	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the would-be email without writing the store or sending")
	cmd.Flags().StringVar(&flagSnapshotFile, "snapshot-file", "", "Persist to a local JSON snapshot file instead of the REST datastore (no store credentials needed)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

// runCheck is the main command logic: one full pipeline pass.
func runCheck(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if flagVerbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	// The file store is an explicit opt-in; without one, missing store
	// credentials are fatal before any network work happens.
	snapshotPath := flagSnapshotFile
	if snapshotPath == "" {
		snapshotPath = cfg.SnapshotFile
	}

	var snapshots store.Store
	if snapshotPath != "" {
		snapshots, err = store.NewFileStore(snapshotPath, log)
		if err != nil {
			return fmt.Errorf("initializing snapshot store: %w", err)
		}
	} else {
		if err := cfg.RequireStoreCredentials(); err != nil {
			return err
		}
		snapshots = store.NewRestStore(cfg.StoreURL, cfg.StoreKey, cfg.Collection, log)
	}

	sc := scraper.New(cfg.SourceURL, cfg.UserAgent, cfg.HTTPTimeout)

	var notify notifier.Notifier
	if flagDryRun {
		notify = notifier.NewDryRunNotifier(cmd.OutOrStdout(), sc.URL())
	} else {
		notify = notifier.NewMailNotifier(notifier.MailConfig{
			APIKey:    cfg.MailAPIKey,
			Sender:    cfg.SenderEmail,
			Recipient: cfg.RecipientEmail,
			BaseURL:   cfg.MailBaseURL,
		}, sc.URL(), log)
	}

	pipeline := &Pipeline{
		Scraper:   sc,
		Store:     snapshots,
		Notifier:  notify,
		KeyColumn: cfg.KeyColumn,
		DryRun:    flagDryRun,
		Log:       log,
	}

	result, err := pipeline.Run(cmd.Context())
	if err != nil {
		return err
	}

	return WriteOutput(cmd.OutOrStdout(), result, format)
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
