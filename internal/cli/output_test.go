package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/starweeb/internal/engine"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONSuccessKeepsMarkup(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]string{"embed": "<b>hi</b>"}))
	assert.Contains(t, buf.String(), "<b>hi</b>")
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("SLUG_TAKEN", "vanity URL is taken", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SLUG_TAKEN", resp.Error.Code)
	assert.Equal(t, "vanity URL is taken", resp.Error.Message)
}

func TestOutputFormatter_JSONErrorWithDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	details := map[string]string{"field": "customUrl"}
	err := formatter.Error("SLUG_FORMAT", "bad slug", details)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success(view(map[string]int{"n": 1}, "Signed in as @%s.", "tom"))
	require.NoError(t, err)
	assert.Equal(t, "Signed in as @tom.\n", buf.String())
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error("UNDERAGE", "dating is for adults only", map[string]string{"field": "age"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [UNDERAGE]")
	assert.Contains(t, buf.String(), "dating is for adults only")
	assert.NotContains(t, buf.String(), "Details:")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	details := map[string]string{"field": "age"}
	err := formatter.Error("UNDERAGE", "dating is for adults only", details)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [UNDERAGE]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:  "text",
				Writer:  buf,
				Verbose: tt.verbose,
			}

			formatter.VerboseLog("Opening %s", "starweeb.db")

			if tt.wantLog {
				assert.Contains(t, buf.String(), "Opening starweeb.db")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestTextView_JSONUsesData(t *testing.T) {
	v := view(map[string]bool{"liked": true}, "Liked.")
	assert.Equal(t, "Liked.", v.String())

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"liked":true}`, string(data))
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    string
		message string
		details any
	}{
		{
			name:    "engine error with field",
			err:     &engine.Error{Code: engine.CodeSlugTaken, Field: "customUrl", Message: "taken"},
			code:    "SLUG_TAKEN",
			message: "taken",
			details: map[string]string{"field": "customUrl"},
		},
		{
			name:    "engine error without field",
			err:     &engine.Error{Code: engine.CodeNotFound, Message: "missing"},
			code:    "NOT_FOUND",
			message: "missing",
		},
		{
			name:    "command error",
			err:     NewExitError(ExitCommandError, "bad flag"),
			code:    "E_COMMAND",
			message: "bad flag",
		},
		{
			name:    "wrapped failure",
			err:     WrapExitError(ExitFailure, "snapshot rejected", errors.New("not an object")),
			code:    "E_FAILED",
			message: "snapshot rejected: not an object",
		},
		{
			name:    "plain error",
			err:     errors.New("disk full"),
			code:    "E_FAILED",
			message: "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, message, details := describeError(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.message, message)
			assert.Equal(t, tt.details, details)
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "x")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("x")))
	assert.Equal(t, ExitFailure, GetExitCode(&engine.Error{Code: engine.CodeSlugTaken}))
	assert.True(t, reportedFailure("x").Reported)
}

func TestCLIError_JSON(t *testing.T) {
	cliErr := CLIError{
		Code:    "EMPTY_TEXT",
		Message: "text must not be empty",
		Details: map[string]string{"field": "content"},
	}

	data, err := json.Marshal(cliErr)
	require.NoError(t, err)

	var decoded CLIError
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "EMPTY_TEXT", decoded.Code)
	assert.Equal(t, "text must not be empty", decoded.Message)
}
