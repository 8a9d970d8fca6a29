package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/brandscan/brandscan/internal/config"
	"github.com/brandscan/brandscan/internal/database"
	"github.com/brandscan/brandscan/internal/model"
	"github.com/brandscan/brandscan/internal/report"
)

// NewHistoryCmd creates the history command.
// This command lists stored scan results from the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [site]",
		Short: "List stored scan results for a site",
		Long: `History lists the stored scans of a site, newest first, with the
palette summary and brand voice of each scan.

Scans are stored automatically by 'brandscan scan' unless --no-save
was used.

Examples:
  # List scan history for a site
  brandscan history acme.example

  # Show the full latest report for a site
  brandscan history --latest acme.example

  # List all scanned sites in the database
  brandscan history --sites

  # Output history as JSON
  brandscan history --json acme.example`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("sites", "s", false,
		"List all scanned sites in the database")
	cmd.Flags().BoolP("latest", "l", false,
		"Show the full latest report instead of the scan list")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listSites, err := cmd.Flags().GetBool("sites")
	if err != nil {
		return err
	}
	latest, err := cmd.Flags().GetBool("latest")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database
	var site string
	if !listSites {
		if len(args) == 0 {
			return errors.New("site is required (use --sites to see available sites)")
		}
		site = model.SiteKey(args[0])
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if listSites {
		sites, err := db.ListScannedSites(ctx)
		if err != nil {
			return fmt.Errorf("failed to list sites: %w", err)
		}
		return printSites(out, sites, asJSON)
	}

	if latest {
		stored, err := db.GetLatestScan(ctx, site)
		if err != nil {
			return fmt.Errorf("failed to load scan: %w", err)
		}
		if stored == nil {
			return fmt.Errorf("no scans found for %s", site)
		}
		return printLatest(out, stored, asJSON)
	}

	scans, err := db.GetScanHistoryWithMetadata(ctx, site)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(scans) == 0 {
		return fmt.Errorf("no scans found for %s", site)
	}
	return printHistory(out, site, scans, asJSON)
}

// printSites writes the list of scanned sites.
func printSites(w io.Writer, sites []string, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(sites)
	}

	if len(sites) == 0 {
		fmt.Fprintln(w, "No scans in the database yet. Run 'brandscan scan <url>' first.")
		return nil
	}

	fmt.Fprintf(w, "Scanned sites (%d):\n", len(sites))
	for _, site := range sites {
		fmt.Fprintf(w, "  %s\n", site)
	}
	return nil
}

// printLatest writes the full latest report for a site.
func printLatest(w io.Writer, stored *model.ScanReport, asJSON bool) error {
	if asJSON {
		writer := report.NewJSONWriter(w, report.WithPrettyPrint())
		_, err := writer.Write(stored)
		return err
	}

	writer := report.NewSimpleWriter(w)
	_, err := writer.Write(stored)
	return err
}

// printHistory writes the scan listing for one site.
func printHistory(w io.Writer, site string, scans []database.ScanMetadata, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(scans)
	}

	fmt.Fprintf(w, "Scan history for %s (%d scans, newest first):\n\n", site, len(scans))
	for _, scan := range scans {
		fmt.Fprintf(w, "  %s  %s (%s)\n",
			scan.ID,
			scan.ScannedAt.Format("2006-01-02 15:04"),
			humanize.Time(scan.ScannedAt))
		if scan.PaletteSummary != "" {
			fmt.Fprintf(w, "      palette: %s\n", scan.PaletteSummary)
		}
		if scan.ToneVoice != "" {
			fmt.Fprintf(w, "      voice:   %s\n", scan.ToneVoice)
		}
		if scan.ErrorMessage != "" {
			fmt.Fprintf(w, "      error:   %s\n", scan.ErrorMessage)
		}
		fmt.Fprintf(w, "      took %s\n\n", scan.Duration.Round(time.Millisecond))
	}
	return nil
}
