/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/suparena/domainstore"
	"github.com/suparena/domainstore/methods"
)

// Output formats.
const (
	formatTable = "table"
	formatYAML  = "yaml"
)

func checkFormat(format string) error {
	if format != formatTable && format != formatYAML {
		return fmt.Errorf("unknown format %q (expected %s or %s)", format, formatTable, formatYAML)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func newSignaturesCommand() *cobra.Command {
	var (
		format string
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "signatures",
		Short: "List the method signatures a mapping implements",
		Long: `List the method signatures implemented by the mapping selected with
--mapping, or the whole catalog with --all.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			sigs := methods.Catalog()
			if !all {
				h, err := storeFrom(cmd).Handlers().Resolve("")
				if err != nil {
					return err
				}
				sigs = h.Signatures()
			}

			out := cmd.OutOrStdout()
			if format == formatYAML {
				return writeYAML(out, sigs)
			}
			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Static", "Returns", "Method", "Parameters"})
			for _, s := range sigs {
				t.AppendRow(table.Row{s.Static, s.ReturnType, s.Name, strings.Join(s.Params, ", ")})
			}
			t.AppendFooter(table.Row{"", "", "Total", len(sigs)})
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format (table|yaml)")
	cmd.Flags().BoolVar(&all, "all", false, "list the whole catalog")
	return cmd
}

type mappingInfo struct {
	Name       string `yaml:"name"`
	Default    bool   `yaml:"default"`
	Signatures int    `yaml:"signatures"`
}

func newMappingsCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "mappings",
		Short: "List the registered handler mappings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			reg := storeFrom(cmd).Handlers()
			var infos []mappingInfo
			for _, name := range reg.Mappings() {
				h, err := reg.Resolve(name)
				if err != nil {
					return err
				}
				infos = append(infos, mappingInfo{
					Name:       name,
					Default:    name == reg.DefaultMapping(),
					Signatures: len(h.Signatures()),
				})
			}

			out := cmd.OutOrStdout()
			if format == formatYAML {
				return writeYAML(out, infos)
			}
			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Mapping", "Default", "Signatures"})
			for _, m := range infos {
				def := ""
				if m.Default {
					def = "*"
				}
				t.AppendRow(table.Row{m.Name, def, m.Signatures})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format (table|yaml)")
	return cmd
}

func newVersionCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := domainstore.GetVersionInfo()
			if format == formatYAML {
				return writeYAML(cmd.OutOrStdout(), info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "domainstore version %s\n", info.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Git commit: %s\n", info.GitCommit)
			fmt.Fprintf(cmd.OutOrStdout(), "Build date: %s\n", info.BuildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", info.GoVersion)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format (table|yaml)")
	return cmd
}
