package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/epeers/reservoirs/internal/models"
	"github.com/epeers/reservoirs/internal/util"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load CONAGUA daily reports into the database",
	Long: `Load CONAGUA daily reports into the database.

Without flags the current report day is loaded. --from walks backwards from
--to (default today) to --from, pausing --delay after every request to CONAGUA.
--archived replays every report kept in the object store without contacting CONAGUA.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dateFlag, _ := cmd.Flags().GetString("date")
		fromFlag, _ := cmd.Flags().GetString("from")
		toFlag, _ := cmd.Flags().GetString("to")
		archived, _ := cmd.Flags().GetBool("archived")
		delay, _ := cmd.Flags().GetDuration("delay")
		if !cmd.Flags().Changed("delay") {
			delay = cfg.IngestDelay
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		svc := a.svcs.Ingest

		var result *models.IngestResult
		switch {
		case archived:
			if a.archive == nil {
				return errors.New("--archived needs a reachable report archive (MINIO_ENDPOINT)")
			}
			dates, err := a.archive.Dates(ctx)
			if err != nil {
				return err
			}
			log.Infof("replaying %d archived reports", len(dates))
			result, err = svc.IngestDates(ctx, dates, 0)
			if err != nil {
				return err
			}
		default:
			from, to, err := ingestRange(dateFlag, fromFlag, toFlag)
			if err != nil {
				return err
			}
			result, err = svc.Backfill(ctx, from, to, delay)
			if err != nil {
				return err
			}
		}

		fmt.Printf("Days processed: %d\n", result.DaysProcessed)
		fmt.Printf("Days with data: %d\n", result.DaysWithData)
		fmt.Printf("CONAGUA calls:  %d\n", result.UpstreamCalls)
		fmt.Printf("Archive hits:   %d\n", result.ArchiveHits)
		fmt.Printf("Readings:       %d\n", result.ReadingsStored)
		for _, w := range result.Warnings {
			fmt.Printf("  [%s] %s\n", w.Code, w.Message)
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().String("date", "", "single report date (YYYY-MM-DD)")
	ingestCmd.Flags().String("from", "", "oldest date of a backfill (YYYY-MM-DD)")
	ingestCmd.Flags().String("to", "", "newest date of a backfill (YYYY-MM-DD, default today)")
	ingestCmd.Flags().Bool("archived", false, "replay every archived report")
	ingestCmd.Flags().Duration("delay", 250*time.Millisecond, "pause after each CONAGUA request (overrides INGEST_DELAY)")
}

// ingestRange resolves the date flags to an inclusive range.
func ingestRange(dateFlag, fromFlag, toFlag string) (from, to time.Time, err error) {
	today := util.ReportDay(time.Now())
	parse := func(name, v string) (time.Time, error) {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, fmt.Errorf("--%s must be in YYYY-MM-DD format", name)
		}
		return t, nil
	}

	switch {
	case dateFlag != "":
		if fromFlag != "" || toFlag != "" {
			return from, to, errors.New("--date cannot be combined with --from/--to")
		}
		d, err := parse("date", dateFlag)
		return d, d, err
	case fromFlag == "" && toFlag == "":
		return today, today, nil
	case fromFlag == "":
		return from, to, errors.New("--from is required when --to is given")
	}

	if from, err = parse("from", fromFlag); err != nil {
		return from, to, err
	}
	to = today
	if toFlag != "" {
		if to, err = parse("to", toFlag); err != nil {
			return from, to, err
		}
	}
	if to.Before(from) {
		return from, to, errors.New("--to must not be before --from")
	}
	return from, to, nil
}
