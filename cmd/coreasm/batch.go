package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"coreasm/internal/batch"
	"coreasm/internal/cache"
	"coreasm/internal/diag"
	"coreasm/internal/emit"
	"coreasm/internal/program"
	"coreasm/internal/programfile"
	"coreasm/internal/target"
	"coreasm/internal/ui"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [program-file...]",
		Short: "Emit several programs for several targets in parallel",
		Long: `Batch emits every program for every --target into --out-dir as
<name>-<triple>.asm. Without --target all supported targets are used.`,
		RunE: runBatch,
	}
	cmd.Flags().StringArray("target", nil, "target triple (repeatable; default: all supported)")
	cmd.Flags().String("out-dir", "out", "output directory")
	cmd.Flags().Int("jobs", 0, "parallel workers (0 = GOMAXPROCS)")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	cmd.Flags().Bool("strict", false, "fail on dangling references, numeric prints and unrepresentable text")
	cmd.Flags().Int("label-base", emit.DefaultLabelBase, "first synthetic text label number")
	cmd.Flags().Bool("cache", false, "reuse artifacts from the disk cache")
	return cmd
}

func runBatch(cmd *cobra.Command, args []string) (err error) {
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()

	firstPath := ""
	if len(args) > 0 {
		firstPath = args[0]
	}
	manifest, err := loadManifestNear(firstPath)
	if err != nil {
		return reportConfigError(cmd, err)
	}
	registry := manifest.Registry()
	opts, err := emitOptions(cmd, manifest)
	if err != nil {
		return err
	}

	targetFlags, err := cmd.Flags().GetStringArray("target")
	if err != nil {
		return err
	}
	triples := registry.Supported()
	if len(targetFlags) > 0 {
		triples = make([]target.Triple, 0, len(targetFlags))
		for _, v := range targetFlags {
			t, err := target.ParseTriple(v)
			if err != nil {
				return err
			}
			triples = append(triples, t)
		}
	}

	outDir, err := cmd.Flags().GetString("out-dir")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return err
	}
	var dc *cache.DiskCache
	if useCache {
		if dc, err = cache.Open("coreasm"); err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
	}

	reqs, err := buildRequests(args, triples, outDir, opts)
	if err != nil {
		return err
	}
	bopts := batch.Options{Jobs: jobs, Registry: registry, Cache: dc}

	var results []batch.Result
	if shouldUseTUI(mode) && !rootBool(cmd, "quiet") {
		results, err = runBatchWithUI(cmd.Context(), cmd, reqs, bopts)
	} else {
		results, err = batch.Run(cmd.Context(), reqs, bopts)
	}
	if err != nil {
		return err
	}
	return reportBatch(cmd, results)
}

// buildRequests loads every program once and pairs it with every triple.
func buildRequests(paths []string, triples []target.Triple, outDir string, opts emit.Options) ([]batch.Request, error) {
	type input struct {
		stem string
		prog *program.Program
	}
	var inputs []input
	if len(paths) == 0 {
		inputs = append(inputs, input{stem: "greeting", prog: program.Example()})
	}
	for _, p := range paths {
		prog, err := programfile.Load(p)
		if err != nil {
			return nil, err
		}
		stem := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		inputs = append(inputs, input{stem: stem, prog: prog})
	}

	reqs := make([]batch.Request, 0, len(inputs)*len(triples))
	for _, in := range inputs {
		for _, t := range triples {
			reqs = append(reqs, batch.Request{
				Name:    in.stem + "@" + t.String(),
				Program: in.prog,
				Triple:  t,
				Options: opts,
				Output:  filepath.Join(outDir, in.stem+"-"+t.String()+".asm"),
			})
		}
	}
	return reqs, nil
}

func runBatchWithUI(ctx context.Context, cmd *cobra.Command, reqs []batch.Request, opts batch.Options) ([]batch.Result, error) {
	events := make(chan batch.Event, 256)
	type outcome struct {
		results []batch.Result
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		opts.Sink = batch.ChannelSink{Ch: events}
		res, err := batch.Run(ctx, reqs, opts)
		done <- outcome{res, err}
		close(events)
	}()

	names := make([]string, len(reqs))
	for i := range reqs {
		names[i] = reqs[i].Name
	}
	uiErr := ui.RunProgress("emitting", names, events, cmd.OutOrStdout())
	if uiErr != nil {
		// keep workers from blocking on a full channel
		go func() {
			for range events {
			}
		}()
	}
	out := <-done
	if uiErr != nil {
		return out.results, uiErr
	}
	return out.results, out.err
}

func reportBatch(cmd *cobra.Command, results []batch.Result) error {
	quiet := rootBool(cmd, "quiet")
	errOut := cmd.ErrOrStderr()
	failed, cached := 0, 0
	for i := range results {
		res := &results[i]
		if res.Err != nil {
			failed++
			diag.Pretty(errOut, []diag.Diagnostic{resultDiagnostic(res)}, res.Name)
			continue
		}
		if res.Cached {
			cached++
		}
		if quiet {
			continue
		}
		diag.Pretty(errOut, res.Artifact.Diagnostics, res.Name)
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", res.Name, res.Output)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "emitted %d/%d (%d cached)\n", len(results)-failed, len(results), cached)
	}
	if rootBool(cmd, "timings") {
		printStageTimings(errOut, results)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d requests failed", failed, len(results))
	}
	return nil
}
