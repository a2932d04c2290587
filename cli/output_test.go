package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/saloonhub/saloonstore/saloon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputResult(t *testing.T) {
	testCases := map[string]struct {
		err      error
		code     string
		exitCode int
	}{
		"not-found": {
			err:      saloon.NotFound("a saloon with id=%d not found", 7),
			code:     "not_found",
			exitCode: ExitCallerError,
		},
		"not-authorized": {
			err:      saloon.NotAuthorized("you are not the owner of saloon with id=%d", 7),
			code:     "not_authorized",
			exitCode: ExitCallerError,
		},
		"bad-request": {
			err:      saloon.BadRequest("name must not be empty"),
			code:     "bad_request",
			exitCode: ExitCallerError,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase

		t.Run(name, func(t *testing.T) {
			buf := &bytes.Buffer{}

			err := output{w: buf}.result(nil, testCase.err)
			require.Error(t, err)
			assert.Equal(t, testCase.exitCode, GetExitCode(err))
			assert.True(t, errors.Is(err, testCase.err))

			var response Response
			require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
			assert.Equal(t, "error", response.Status)
			require.NotNil(t, response.Error)
			assert.Equal(t, testCase.code, response.Error.Code)
			assert.Equal(t, testCase.err.Error(), response.Error.Message)
		})
	}
}

func TestOutputInternalError(t *testing.T) {
	buf := &bytes.Buffer{}
	internal := errors.New("disk on fire")

	err := output{w: buf}.result(nil, internal)
	assert.Equal(t, internal, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Zero(t, buf.Len())
}

func TestOutputSuccess(t *testing.T) {
	buf := &bytes.Buffer{}

	err := output{w: buf}.result(map[string]string{"result": "success"}, nil)
	require.NoError(t, err)
	assert.Equal(t, ExitSuccess, GetExitCode(err))

	var response Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
	assert.Nil(t, response.Error)
	assert.NotNil(t, response.Data)
}
