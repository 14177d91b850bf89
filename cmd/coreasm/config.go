package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"coreasm/internal/batch"
	"coreasm/internal/diag"
	"coreasm/internal/emit"
	"coreasm/internal/project"
	"coreasm/internal/target"
)

const defaultTriple = "x86_64-linux"

// loadManifestNear looks for coreasm.toml above the program file, or above
// the working directory when no file is given.
func loadManifestNear(programPath string) (*project.Manifest, error) {
	start := "."
	if programPath != "" {
		start = filepath.Dir(programPath)
	}
	m, _, err := project.LoadManifest(start)
	return m, err
}

// reportConfigError prints err as a config diagnostic and silences cobra's
// own error line.
func reportConfigError(cmd *cobra.Command, err error) error {
	diag.Pretty(cmd.ErrOrStderr(), []diag.Diagnostic{
		diag.New(diag.SevError, diag.ConfigInvalid, diag.NoLocation, "%v", err),
	}, "")
	cmd.SilenceErrors = true
	return err
}

// resultDiagnostic maps a failed request to a diagnostic. Load failures are
// program-input problems; everything later comes from the emitter or target.
func resultDiagnostic(res *batch.Result) diag.Diagnostic {
	if res.Stage == batch.StageLoad {
		return diag.New(diag.SevError, diag.ConfigProgramInput, diag.NoLocation, "%v", res.Err)
	}
	return emit.AsDiagnostic(res.Err)
}

// resolveTriple applies flag > manifest > default.
func resolveTriple(cmd *cobra.Command, m *project.Manifest) (target.Triple, error) {
	if cmd.Flags().Changed("target") {
		value, err := cmd.Flags().GetString("target")
		if err != nil {
			return target.Triple{}, err
		}
		return target.ParseTriple(value)
	}
	if t, ok := m.Triple(); ok {
		return t, nil
	}
	return target.ParseTriple(defaultTriple)
}

// emitOptions merges --strict and --label-base over the manifest's [emit].
func emitOptions(cmd *cobra.Command, m *project.Manifest) (emit.Options, error) {
	var opts emit.Options
	if m != nil {
		opts.Strict = m.Config.Emit.Strict
		opts.LabelBase = m.Config.Emit.LabelBase
	}
	if cmd.Flags().Changed("strict") {
		strict, err := cmd.Flags().GetBool("strict")
		if err != nil {
			return opts, err
		}
		opts.Strict = strict
	}
	if cmd.Flags().Changed("label-base") {
		base, err := cmd.Flags().GetInt("label-base")
		if err != nil {
			return opts, err
		}
		if base <= 0 {
			return opts, fmt.Errorf("--label-base must be positive, got %d", base)
		}
		opts.LabelBase = base
	}
	return opts, nil
}

func rootBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Root().PersistentFlags().GetBool(name)
	return err == nil && v
}

// writeText writes to stdout for "" or "-", otherwise to path.
func writeText(cmd *cobra.Command, path, text string) error {
	if path == "" || path == "-" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	}
	return batch.WriteFile(path, text)
}
