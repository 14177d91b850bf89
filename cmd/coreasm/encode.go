package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"coreasm/internal/programfile"
)

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <program-file>",
		Short: "Convert a program between TOML and msgpack",
		Long: `Encode rewrites a program file in the other format: .toml becomes .mp
and .mp/.msgpack becomes .toml, unless -o names the output explicitly.`,
		Args: cobra.ExactArgs(1),
		RunE: runEncode,
	}
	cmd.Flags().StringP("output", "o", "", "output file; its extension selects the format")
	return cmd
}

func runEncode(cmd *cobra.Command, args []string) error {
	in := args[0]
	inFormat, err := programfile.FormatForPath(in)
	if err != nil {
		return err
	}
	out, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if out == "" {
		ext := ".mp"
		if inFormat == programfile.FormatMsgpack {
			ext = ".toml"
		}
		out = strings.TrimSuffix(in, filepath.Ext(in)) + ext
	}
	if filepath.Clean(out) == filepath.Clean(in) {
		return fmt.Errorf("refusing to overwrite input %s", in)
	}

	p, err := programfile.Load(in)
	if err != nil {
		return err
	}
	if err := programfile.Save(out, p); err != nil {
		return err
	}
	if !rootBool(cmd, "quiet") {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
	}
	return nil
}
