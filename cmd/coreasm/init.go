package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"coreasm/internal/project"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create coreasm.toml and a hello.toml program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			written, err := project.WriteStarter(dir, force)
			if err != nil {
				return err
			}
			if !rootBool(cmd, "quiet") {
				for _, path := range written {
					fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "overwrite existing files")
	return cmd
}
