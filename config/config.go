/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"io"
	"log/slog"
	"strings"

	"github.com/suparena/domainstore/errors"
)

// Config is the complete domainstore configuration.
type Config struct {
	Domain   DomainConfig   `koanf:"domain" yaml:"domain"`
	Log      LogConfig      `koanf:"log" yaml:"log"`
	DynamoDB DynamoDBConfig `koanf:"dynamodb" yaml:"dynamodb"`
}

// DomainConfig controls method dispatch and the memory mapping.
type DomainConfig struct {
	// DefaultMapping is the mapping of classes that name none.
	DefaultMapping string `koanf:"default_mapping" yaml:"default_mapping"`
	// FailOnError is the failOnError default of save.
	FailOnError bool `koanf:"fail_on_error" yaml:"fail_on_error"`
	// StrictUnique serialises uniqueness checks with their writes.
	StrictUnique bool `koanf:"strict_unique" yaml:"strict_unique"`
	// Datastores names the memory datastores created next to "default".
	Datastores []string `koanf:"datastores" yaml:"datastores"`
}

type LogConfig struct {
	Level string `koanf:"level" yaml:"level"`
}

// DynamoDBConfig enables the dynamodb mapping when Table is set.
type DynamoDBConfig struct {
	Region    string `koanf:"region" yaml:"region"`
	Table     string `koanf:"table" yaml:"table"`
	AccessKey string `koanf:"access_key" yaml:"access_key"`
	SecretKey string `koanf:"secret_key" yaml:"secret_key"`
	Endpoint  string `koanf:"endpoint" yaml:"endpoint"`
}

// Enabled reports whether a table is configured.
func (c DynamoDBConfig) Enabled() bool { return c.Table != "" }

// Default values.
const (
	DefaultMapping  = "memory"
	DefaultLogLevel = "info"
	DefaultRegion   = "us-east-1"
)

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Domain:   DomainConfig{DefaultMapping: DefaultMapping},
		Log:      LogConfig{Level: DefaultLogLevel},
		DynamoDB: DynamoDBConfig{Region: DefaultRegion},
	}
}

// Validate checks the values Load cannot check while decoding.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Domain.DefaultMapping) == "" {
		return errors.NewInvalidArgumentError("domain.default_mapping", "must not be empty")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses Level; blank means info.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(c.Level) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, errors.NewInvalidArgumentError("log.level", err.Error())
	}
	return level, nil
}

// NewLogger returns a text logger writing to w at the configured level.
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := c.SlogLevel()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}
