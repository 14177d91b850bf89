package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"coreasm/internal/batch"
	"coreasm/internal/cache"
	"coreasm/internal/diag"
	"coreasm/internal/emit"
	"coreasm/internal/observ"
	"coreasm/internal/program"
)

func newEmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emit [program-file]",
		Short: "Emit NASM text for one target",
		Long: `Emit lowers a program file (.toml, .mp or .msgpack) into NASM text.
Without a file the built-in greeting program is used. The target, strict mode
and label base default to the nearest coreasm.toml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runEmit,
	}
	cmd.Flags().String("target", defaultTriple, "target triple, e.g. x86_64-linux, arm64-linux, 32-x86-windows")
	cmd.Flags().StringP("output", "o", "", "output file (- for stdout)")
	cmd.Flags().Bool("strict", false, "fail on dangling references, numeric prints and unrepresentable text")
	cmd.Flags().Int("label-base", emit.DefaultLabelBase, "first synthetic text label number")
	cmd.Flags().Bool("cache", false, "reuse artifacts from the disk cache")
	return cmd
}

func runEmit(cmd *cobra.Command, args []string) (err error) {
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

	var path string
	if len(args) == 1 {
		path = args[0]
	}
	timer := observ.NewTimer()

	idx := timer.Begin("config")
	manifest, err := loadManifestNear(path)
	if err != nil {
		return reportConfigError(cmd, err)
	}
	triple, err := resolveTriple(cmd, manifest)
	if err != nil {
		return err
	}
	opts, err := emitOptions(cmd, manifest)
	if err != nil {
		return err
	}
	timer.End(idx, triple.String())

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("output") {
		output = manifest.OutputPath()
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

	name := "greeting"
	if path != "" {
		name = filepath.Base(path)
	}
	req := batch.Request{Name: name, Triple: triple, Options: opts}
	if path == "" {
		req.Program = program.Example()
	} else {
		req.Path = path
	}
	results, err := batch.Run(cmd.Context(), []batch.Request{req}, batch.Options{
		Jobs:     1,
		Registry: manifest.Registry(),
		Cache:    dc,
	})
	if err != nil {
		return err
	}
	res := &results[0]
	for _, stage := range batch.Stages {
		if res.Timings.Has(stage) {
			timer.Record(string(stage), res.Timings.Duration(stage), "")
		}
	}
	origin := name + "@" + triple.String()
	quiet := rootBool(cmd, "quiet")

	if res.Err != nil {
		diag.Pretty(cmd.ErrOrStderr(), []diag.Diagnostic{resultDiagnostic(res)}, origin)
		cmd.SilenceErrors = true
		return res.Err
	}
	if !quiet {
		diag.Pretty(cmd.ErrOrStderr(), res.Artifact.Diagnostics, origin)
	}

	idx = timer.Begin("write")
	if err := writeText(cmd, output, res.Artifact.Text); err != nil {
		return err
	}
	timer.End(idx, output)

	if !quiet && output != "" && output != "-" {
		note := ""
		if res.Cached {
			note = " (cached)"
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s%s\n", output, note)
	}
	if rootBool(cmd, "timings") {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	return nil
}
