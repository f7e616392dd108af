package main

import (
	"bytes"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/colframe/colframe/pkg/config"
	"github.com/colframe/colframe/pkg/logger"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestConfigCommand(t *testing.T) {
	out, err := run(t, "config", "--rows", "12", "--nan-policy", "dont_pad")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, 12, cfg.RandGen.Rows)
	assert.Equal(t, config.NaNPolicyDontPad, cfg.Frame.NaNPolicy)
}

func TestSetupTagsCommandContext(t *testing.T) {
	root := newRootCommand()
	var gotCommand, gotFrame interface{}
	root.AddCommand(&cobra.Command{
		Use: "inspect",
		RunE: func(cmd *cobra.Command, args []string) error {
			gotCommand = cmd.Context().Value(logger.CommandKey)
			gotFrame = cmd.Context().Value(logger.FrameKey)
			return nil
		},
	})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"inspect", "--log-level", "error"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "inspect", gotCommand)
	assert.Equal(t, config.NewConfig().Name, gotFrame)
}

func TestInvalidFlagOverride(t *testing.T) {
	_, err := run(t, "config", "--nan-policy", "sometimes")
	assert.Error(t, err)
}

func TestReindexCommand(t *testing.T) {
	out, err := run(t, "reindex", "--rows", "10", "--seed", "3", "--column", "volume", "--view")
	require.NoError(t, err)

	var got struct {
		Index   []int32                  `json:"index"`
		Columns map[string][]interface{} `json:"columns"`
	}
	require.NoError(t, gojson.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Index, 10)
	assert.Contains(t, got.Columns, "OLD_INDEX")
	assert.NotContains(t, got.Columns, "volume")
}

func TestTopKCommand(t *testing.T) {
	out, err := run(t, "topk", "--rows", "20", "--seed", "3", "-k", "3", "--smallest")
	require.NoError(t, err)

	var got struct {
		Values []float64 `json:"values"`
	}
	require.NoError(t, gojson.Unmarshal([]byte(out), &got))
	require.Len(t, got.Values, 3)
	assert.LessOrEqual(t, got.Values[0], got.Values[1])
	assert.LessOrEqual(t, got.Values[1], got.Values[2])
}

func TestRetypeCommand(t *testing.T) {
	out, err := run(t, "retype", "--rows", "5", "--seed", "3", "--to", "int64")
	require.NoError(t, err)

	var got struct {
		Type   string  `json:"type"`
		Before []int64 `json:"before"`
		After  []int64 `json:"after"`
	}
	require.NoError(t, gojson.Unmarshal([]byte(out), &got))
	assert.Equal(t, "int64", got.Type)
	assert.Equal(t, got.Before, got.After)

	_, err = run(t, "retype", "--to", "complex128")
	assert.Error(t, err)
}

func TestUnsupportedColumn(t *testing.T) {
	_, err := run(t, "describe", "--column", "ticker")
	assert.Error(t, err)
}
