package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestDetectCommand(t *testing.T) {
	out, err := runCommand(t, "detect", "दिल्ली में मौसम कैसा है?")
	require.NoError(t, err)
	require.Contains(t, out, "hi\t")
	require.Contains(t, out, "hi-IN")

	out, err = runCommand(t, "detect", "東京の天気は？")
	require.NoError(t, err)
	require.Contains(t, out, "ja-JP")
}

func TestLocateCommand(t *testing.T) {
	out, err := runCommand(t, "locate", "What's the weather in London?")
	require.NoError(t, err)
	require.Equal(t, "London\n", out)

	out, err = runCommand(t, "locate", "--default-city", "Osaka", "tell me about the weather")
	require.NoError(t, err)
	require.Equal(t, "Osaka\n", out)

	out, err = runCommand(t, "locate", "-l", "東京", "anything")
	require.NoError(t, err)
	require.Equal(t, "Tokyo\n", out)
}

func TestAskRequiresLLMKey(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENWEATHER_API_KEY", "")

	_, err := runCommand(t, "ask", "Tokyo weather")
	require.ErrorContains(t, err, "llm api key not configured")
}

func TestCommandsRequireArguments(t *testing.T) {
	_, err := runCommand(t, "detect")
	require.Error(t, err)
}
