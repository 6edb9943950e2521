package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/importer"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/logger"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/pipeline"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/runlog"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/textsource"
)

type importOptions struct {
	dryRun bool
	strict bool
	format string
}

// statement is one input document and what became of it.
type statement struct {
	uri       string
	inboxName string // set when the file came from the inbox scan
	result    pipeline.Result
	err       error
}

func newImportCommand(root *rootOptions) *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import [path or gs://bucket/object ...]",
		Short: "Extract, reconcile and load bank statements",
		Long: "Runs each statement through normalize, stitch, parse, enrich, fingerprint, " +
			"validate and reconcile, then loads the transactions into the database. " +
			"With no arguments every .pdf/.txt file in the inbox is imported and moved to inbox/processed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := root.loadWorkspace(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("strict") {
				opts.strict = ws.cfg.Import.Strict
			}
			return runImport(cmd, ws, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "parse and reconcile without writing to the database")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "skip loading statements with balance anomalies or invalid rows")
	cmd.Flags().StringVar(&opts.format, "format", "ekstre", "statement format")

	return cmd
}

func runImport(cmd *cobra.Command, ws *workspace, opts *importOptions, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	popts, err := ws.pipelineOptions()
	if err != nil {
		return err
	}
	reg := importer.DefaultRegistry(popts)
	format := reg.Get(opts.format)
	if format == nil {
		return fmt.Errorf("unknown format %q (available: %s)", opts.format, strings.Join(reg.Names(), ", "))
	}

	stmts, err := collectStatements(ws, args)
	if err != nil {
		return err
	}
	if len(stmts) == 0 {
		fmt.Fprintln(out, "No statements to import.")
		return nil
	}

	src, closeSrc, err := newRouter(ctx, stmts)
	if err != nil {
		return err
	}
	defer closeSrc()

	if err := extractAll(ctx, src, format, stmts, ws.cfg.Import.Workers); err != nil {
		return err
	}

	var db pipeline.Store
	if !opts.dryRun {
		s, err := ws.openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		db = s
	}

	runID := runlog.NewRunID()
	log := ws.log.With().Str("run_id", runID).Logger()
	var (
		entries           []runlog.Entry
		failed            int
		inserted, skipped int
	)
	for _, st := range stmts {
		entry := runlog.Entry{
			RunID:     runID,
			Timestamp: time.Now().UTC(),
			Source:    st.uri,
		}

		if st.err != nil {
			failed++
			entry.Status = runlog.StatusFailed
			entries = append(entries, entry)
			log.Error().Err(st.err).Str("source", st.uri).Msg("statement failed")
			fmt.Fprintf(out, "%s: FAILED: %v\n", st.uri, st.err)
			continue
		}

		res := st.result
		entry.Records = res.Summary.RecordCount
		entry.Parsed = res.Summary.TransactionCount
		entry.Rejected = res.Summary.RejectedCount
		entry.Anomalies = len(res.Anomalies)
		printResult(out, res)

		switch {
		case opts.dryRun:
			entry.Status = runlog.StatusDryRun
		case opts.strict && (len(res.Anomalies) > 0 || len(res.Invalid) > 0):
			entry.Status = runlog.StatusRejected
			fmt.Fprintf(out, "  not loaded: --strict and %d anomalies, %d invalid\n", len(res.Anomalies), len(res.Invalid))
		default:
			lctx := logger.WithContext(ctx, log.With().Str("source", st.uri).Logger())
			lr, err := pipeline.Load(lctx, db, res.Transactions)
			if err != nil {
				failed++
				entry.Status = runlog.StatusFailed
				entries = append(entries, entry)
				fmt.Fprintf(out, "  load FAILED: %v\n", err)
				continue
			}
			entry.Inserted, entry.Skipped = lr.Inserted, lr.Skipped
			entry.Status = runlog.StatusLoaded
			inserted += lr.Inserted
			skipped += lr.Skipped
			fmt.Fprintf(out, "  loaded: %d inserted, %d already present\n", lr.Inserted, lr.Skipped)

			if st.inboxName != "" {
				if err := importer.MarkProcessed(ws.inbox(), st.inboxName); err != nil {
					return err
				}
			}
		}
		entries = append(entries, entry)
	}

	if err := runlog.Append(ws.root, entries); err != nil {
		return err
	}

	fmt.Fprintf(out, "Imported %d statements: %d inserted, %d skipped, %d failed\n",
		len(stmts)-failed, inserted, skipped, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d statements failed", failed, len(stmts))
	}
	return nil
}

// collectStatements returns the explicit arguments, or the inbox contents
// when there are none.
func collectStatements(ws *workspace, args []string) ([]*statement, error) {
	var stmts []*statement
	if len(args) > 0 {
		for _, a := range args {
			stmts = append(stmts, &statement{uri: a})
		}
		return stmts, nil
	}

	files, err := importer.Scan(ws.inbox())
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		stmts = append(stmts, &statement{uri: f.Path, inboxName: f.Name})
	}
	return stmts, nil
}

// newRouter builds the text source. The GCS client is only created when a
// gs:// URI is present.
func newRouter(ctx context.Context, stmts []*statement) (textsource.Router, func(), error) {
	r := textsource.Router{"file": textsource.File{}}
	for _, st := range stmts {
		if strings.HasPrefix(strings.ToLower(st.uri), "gs://") {
			gcs, err := textsource.NewGCS(ctx)
			if err != nil {
				return nil, nil, err
			}
			r["gs"] = gcs
			return r, func() { _ = gcs.Close() }, nil
		}
	}
	return r, func() {}, nil
}

// extractAll extracts and parses every statement concurrently. Per-statement
// failures are kept on the statement; only cancellation aborts the batch.
func extractAll(ctx context.Context, src textsource.Source, format importer.Format, stmts []*statement, workers int) error {
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, st := range stmts {
		st := st
		g.Go(func() error {
			text, err := src.Extract(gctx, st.uri)
			if err != nil {
				st.err = err
				return ctxErr(gctx, err)
			}
			lctx := logger.WithContext(gctx, logger.FromContext(gctx).With().Str("uri", st.uri).Logger())
			res, err := format.Parse(lctx, text)
			if err != nil {
				st.err = err
				return ctxErr(gctx, err)
			}
			res.Source = st.uri
			st.result = res
			return nil
		})
	}
	return g.Wait()
}

func ctxErr(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return ctx.Err()
}

func printResult(w io.Writer, res pipeline.Result) {
	s := res.Summary
	fmt.Fprintf(w, "%s: %d records, %d parsed, %d rejected, debit %s, credit %s\n",
		res.Source, s.RecordCount, s.TransactionCount, s.RejectedCount,
		s.DebitTotal.StringFixed(2), s.CreditTotal.StringFixed(2))
	printAnomalies(w, res.Anomalies)
	for _, v := range res.Invalid {
		fmt.Fprintf(w, "  invalid: %s\n", v.Error())
	}
}
