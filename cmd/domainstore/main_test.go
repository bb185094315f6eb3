/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/suparena/domainstore"
	"github.com/suparena/domainstore/methods"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func signatureStrings(sigs []methods.Signature) []string {
	out := make([]string, len(sigs))
	for i, s := range sigs {
		out[i] = s.String()
	}
	return out
}

func TestSignaturesYAML(t *testing.T) {
	out, err := run(t, "signatures", "--format", "yaml")
	require.NoError(t, err)

	var sigs []methods.Signature
	require.NoError(t, yaml.Unmarshal([]byte(out), &sigs))
	assert.Equal(t, signatureStrings(methods.Catalog()), signatureStrings(sigs))
}

func TestSignaturesDefaultMapping(t *testing.T) {
	out, err := run(t, "--mapping", "default", "signatures", "-f", "yaml")
	require.NoError(t, err)

	var sigs []methods.Signature
	require.NoError(t, yaml.Unmarshal([]byte(out), &sigs))
	assert.Empty(t, sigs)

	all, err := run(t, "--mapping", "default", "signatures", "--all", "-f", "yaml")
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal([]byte(all), &sigs))
	assert.Len(t, sigs, len(methods.Catalog()))
}

func TestSignaturesTable(t *testing.T) {
	out, err := run(t, "signatures")
	require.NoError(t, err)

	assert.Contains(t, out, "METHOD")
	assert.Contains(t, out, "findOrCreateBy")
	assert.Contains(t, out, "withCriteria")
}

func TestMappings(t *testing.T) {
	out, err := run(t, "mappings", "--format", "yaml")
	require.NoError(t, err)

	var infos []mappingInfo
	require.NoError(t, yaml.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, mappingInfo{Name: "default", Default: false, Signatures: 0}, infos[0])
	assert.Equal(t, "memory", infos[1].Name)
	assert.True(t, infos[1].Default)
	assert.Equal(t, len(methods.Catalog()), infos[1].Signatures)
}

func TestUnknownMapping(t *testing.T) {
	_, err := run(t, "--mapping", "redis", "signatures")
	assert.Error(t, err)
}

func TestBadFormat(t *testing.T) {
	_, err := run(t, "mappings", "--format", "json")
	assert.ErrorContains(t, err, "unknown format")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "domainstore version "+domainstore.Version)

	out, err = run(t, "version", "-f", "yaml")
	require.NoError(t, err)
	var info domainstore.VersionInfo
	require.NoError(t, yaml.Unmarshal([]byte(out), &info))
	assert.Equal(t, domainstore.Version, info.Version)
}
