package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCheckersList_Table(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	checkersFormat = "table"
	err := runCheckersList(cmd, nil)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "NAME")
	assert.Contains(t, output, "google_api_key")
	assert.Contains(t, output, "fodselsnummer")
	assert.Contains(t, output, "stripe_api_key")
}

func TestRunCheckersList_JSON(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	checkersFormat = "json"
	err := runCheckersList(cmd, nil)
	require.NoError(t, err)

	var descriptors []struct {
		Name        string `json:"name"`
		Kind        string `json:"kind"`
		Description string `json:"description"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &descriptors))
	assert.NotEmpty(t, descriptors)

	names := make(map[string]bool)
	for _, d := range descriptors {
		names[d.Name] = true
		assert.NotEmpty(t, d.Kind)
	}
	assert.True(t, names["aws_access_key"])
	assert.True(t, names["microsoft_teams_webhook"])
}

func TestRunCheckersList_UnknownFormat(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	checkersFormat = "xml"
	err := runCheckersList(cmd, nil)
	assert.Error(t, err)
}
