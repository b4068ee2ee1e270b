package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/configkit/ddmigrate/pkg/errors"
)

func TestParseError(t *testing.T) {
	cause := errors.New("unexpected token")
	err := errors.WrapParse("json", "host.json", cause)

	assert.Equal(t, "parsing json file host.json: unexpected token", err.Error())
	assert.True(t, errors.IsMalformed(err))
	assert.ErrorIs(t, err, cause)

	assert.NoError(t, errors.WrapParse("json", "host.json", nil))
}

func TestParseErrorWithoutFile(t *testing.T) {
	err := errors.WrapParse("yaml", "", errors.New("bad indent"))
	assert.Equal(t, "parsing yaml: bad indent", err.Error())
}

func TestIOError(t *testing.T) {
	cause := errors.New("permission denied")
	err := errors.WrapIO("writing", "/out/host.json", cause)

	assert.Equal(t, "writing /out/host.json: permission denied", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.False(t, errors.IsMalformed(err))

	assert.NoError(t, errors.WrapIO("writing", "/out/host.json", nil))
}

func TestNotFoundError(t *testing.T) {
	err := errors.NewNotFoundError("pair", "host.json")
	assert.Equal(t, "pair host.json not found", err.Error())
	assert.True(t, errors.IsNotFound(err))
	assert.True(t, errors.IsNotFound(fmt.Errorf("loading: %w", err)))
}

func TestConfigError(t *testing.T) {
	err := errors.NewConfigError("engine", "decider is required", nil)
	assert.Equal(t, "configuration error in engine: decider is required", err.Error())

	err = errors.NewConfigError("", "bad flag combination", nil)
	assert.Equal(t, "configuration error: bad flag combination", err.Error())
}

func TestCancellationChecks(t *testing.T) {
	require.True(t, errors.IsCanceled(errors.ErrCanceled))
	assert.True(t, errors.IsCanceled(fmt.Errorf("deciding: %w", errors.ErrCanceled)))
	assert.False(t, errors.IsCanceled(errors.ErrNotFound))
	assert.False(t, errors.IsCanceled(nil))
}
