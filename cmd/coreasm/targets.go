package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"coreasm/internal/target"
)

type targetPayload struct {
	Triple string            `json:"triple"`
	Width  int               `json:"width"`
	ISA    string            `json:"isa"`
	OS     string            `json:"os"`
	Roles  map[string]string `json:"roles,omitempty"`
}

func newTargetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "List supported targets and their role tables",
		Args:  cobra.NoArgs,
		RunE:  runTargets,
	}
	cmd.Flags().Bool("roles", false, "include the role table of every target")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTargets(cmd *cobra.Command, _ []string) error {
	showRoles, err := cmd.Flags().GetBool("roles")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	manifest, err := loadManifestNear("")
	if err != nil {
		return err
	}
	registry := manifest.Registry()

	var tables []*target.RoleTable
	for _, t := range registry.Supported() {
		rt, err := registry.Resolve(t)
		if err != nil {
			return err
		}
		tables = append(tables, rt)
	}

	switch strings.ToLower(format) {
	case "json":
		return renderTargetsJSON(cmd.OutOrStdout(), tables, showRoles)
	case "pretty":
		renderTargetsPretty(cmd.OutOrStdout(), tables, showRoles)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

var osHeaderColor = color.New(color.Bold)

func renderTargetsPretty(out io.Writer, tables []*target.RoleTable, showRoles bool) {
	title := cases.Title(language.English)
	var lastOS target.OS
	for _, rt := range tables {
		t := rt.Triple()
		if t.OS != lastOS {
			osHeaderColor.Fprintln(out, title.String(t.OS.String()))
			lastOS = t.OS
		}
		fmt.Fprintf(out, "  %-16s %d-bit %s\n", t, int(t.Width), strings.ToUpper(t.ISA.String()))
		if !showRoles {
			continue
		}
		for _, e := range rt.Entries() {
			fmt.Fprintf(out, "      %-14s %s\n", e.Role, e.Value)
		}
	}
}

func renderTargetsJSON(out io.Writer, tables []*target.RoleTable, showRoles bool) error {
	payload := make([]targetPayload, 0, len(tables))
	for _, rt := range tables {
		t := rt.Triple()
		p := targetPayload{
			Triple: t.String(),
			Width:  int(t.Width),
			ISA:    t.ISA.String(),
			OS:     t.OS.String(),
		}
		if showRoles {
			p.Roles = make(map[string]string, len(rt.Entries()))
			for _, e := range rt.Entries() {
				p.Roles[e.Role.String()] = e.Value
			}
		}
		payload = append(payload, p)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
