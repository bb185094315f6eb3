/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix starts every environment variable read by Load. Levels are
// separated by a double underscore: DOMAINSTORE_DOMAIN__FAIL_ON_ERROR sets
// domain.fail_on_error.
const EnvPrefix = "DOMAINSTORE_"

// DefaultFile is looked up in the working directory when Options.File is
// blank.
const DefaultFile = "domainstore.yaml"

// FlagKeys maps command line flags to configuration keys.
var FlagKeys = map[string]string{
	"mapping":        "domain.default_mapping",
	"fail-on-error":  "domain.fail_on_error",
	"strict-unique":  "domain.strict_unique",
	"log-level":      "log.level",
	"dynamodb-table": "dynamodb.table",
}

// Options selects the sources Load reads.
type Options struct {
	// File is the YAML file to read. A blank File reads DefaultFile when it
	// exists.
	File string
	// EnvFiles are dotenv files loaded into the process environment without
	// overriding variables already set. Missing files are skipped.
	EnvFiles []string
	// Flags override every other source for the flags in FlagKeys that were
	// set explicitly.
	Flags *pflag.FlagSet
}

// Load layers defaults, the YAML file, dotenv files, the environment and
// flags, each overriding the previous.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	def := Default()
	if err := k.Load(confmap.Provider(map[string]any{
		"domain.default_mapping": def.Domain.DefaultMapping,
		"domain.fail_on_error":   def.Domain.FailOnError,
		"domain.strict_unique":   def.Domain.StrictUnique,
		"log.level":              def.Log.Level,
		"dynamodb.region":        def.DynamoDB.Region,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path := opts.File
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	for _, name := range opts.EnvFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return nil, fmt.Errorf("error reading env file %s: %w", name, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if opts.Flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := FlagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(opts.Flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey turns DOMAINSTORE_DYNAMODB__ACCESS_KEY into dynamodb.access_key.
// Comma separated datastore names become a list.
func envKey(name, value string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	if key == "domain.datastores" {
		var names []string
		for _, n := range strings.Split(value, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		return key, names
	}
	return key, value
}
