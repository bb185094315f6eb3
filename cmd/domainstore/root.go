/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/suparena/domainstore"
	"github.com/suparena/domainstore/config"
)

type storeKey struct{}

// NewRootCmd creates the root command. Every subcommand but help and
// completion runs against a store built from the layered configuration.
func NewRootCmd() *cobra.Command {
	var (
		cfgFile  string
		envFiles []string
	)

	rootCmd := &cobra.Command{
		Use:     "domainstore",
		Short:   "Inspect domainstore method catalogs and mappings",
		Version: domainstore.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.Load(config.Options{
				File:     cfgFile,
				EnvFiles: envFiles,
				Flags:    cmd.Root().PersistentFlags(),
			})
			if err != nil {
				return err
			}
			logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			store, err := domainstore.New(cmd.Context(), cfg, domainstore.WithLogger(logger))
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), storeKey{}, store))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./"+config.DefaultFile+")")
	flags.StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files to load")
	flags.StringP("mapping", "m", config.DefaultMapping, "default handler mapping")
	flags.String("log-level", config.DefaultLogLevel, "log level (debug|info|warn|error)")
	flags.Bool("fail-on-error", false, "make save fail on validation errors")
	flags.Bool("strict-unique", false, "serialise uniqueness checks with writes")
	flags.String("dynamodb-table", "", "enable the dynamodb mapping on this table")

	_ = rootCmd.RegisterFlagCompletionFunc("mapping", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"memory", "dynamodb", "default"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newSignaturesCommand())
	rootCmd.AddCommand(newMappingsCommand())
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

// storeFrom returns the store built by the root command.
func storeFrom(cmd *cobra.Command) *domainstore.Store {
	s, _ := cmd.Context().Value(storeKey{}).(*domainstore.Store)
	return s
}
