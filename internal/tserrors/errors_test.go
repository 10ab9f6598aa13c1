package tserrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationError(t *testing.T) {
	cause := fmt.Errorf("yaml: line 3: mapping values are not allowed")
	err := NewConfigurationError("/home/user/.tabsmith.yml", "failed to parse config", cause)

	assert.Equal(t, "CONFIG_ERROR", err.Code())
	assert.Equal(t, "/home/user/.tabsmith.yml", err.Path)
	assert.Contains(t, err.Error(), "failed to parse config")
	assert.Contains(t, err.Error(), "mapping values")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestConfigurationError_NoCause(t *testing.T) {
	err := NewConfigurationError("/etc/tabsmith.yml", "config not readable", nil)

	assert.Equal(t, "config not readable", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestIndexError(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := NewIndexError("/var/cache/tabsmith/index.json", "failed to write index cache", cause)

	assert.Equal(t, "INDEX_ERROR", err.Code())
	assert.Equal(t, "/var/cache/tabsmith/index.json", err.Path)
	assert.Contains(t, err.Error(), "failed to write index cache")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestExecutionError(t *testing.T) {
	cause := fmt.Errorf("exit status 127")
	err := NewExecutionError("kubectl get pods", "command failed", cause)

	assert.Equal(t, "EXEC_ERROR", err.Code())
	assert.Equal(t, "kubectl get pods", err.Command)
	assert.Contains(t, err.Error(), "command failed")
	assert.Contains(t, err.Error(), "exit status 127")
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("completion.cycle_cutoff", "must be a positive integer", nil)

	assert.Equal(t, "VALIDATION_ERROR", err.Code())
	assert.Equal(t, "completion.cycle_cutoff", err.Field)
	assert.Equal(t, "must be a positive integer", err.Error())
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("alias:kgp", "alias kgp is not defined")

	assert.Equal(t, "NOT_FOUND", err.Code())
	assert.Equal(t, "alias:kgp", err.Resource)
	assert.Contains(t, err.Error(), "not defined")
	assert.Nil(t, errors.Unwrap(err))
}

func TestAlreadyExistsError(t *testing.T) {
	err := NewAlreadyExistsError("handler:cd", "handler cd is already registered")

	assert.Equal(t, "ALREADY_EXISTS", err.Code())
	assert.Equal(t, "handler:cd", err.Resource)
	assert.Contains(t, err.Error(), "already registered")
}

func TestSetupError(t *testing.T) {
	cause := fmt.Errorf("read-only file system")
	err := NewSetupError("/home/user/.bashrc", "failed to install hook", cause)

	assert.Equal(t, "SETUP_ERROR", err.Code())
	assert.Equal(t, "/home/user/.bashrc", err.Path)
	assert.Contains(t, err.Error(), "failed to install hook")
	assert.Contains(t, err.Error(), "read-only")
}

func TestConditionError(t *testing.T) {
	cause := fmt.Errorf("unknown condition key: weather")
	err := NewConditionError("kgp", "invalid when clause", cause)

	assert.Equal(t, "CONDITION_ERROR", err.Code())
	assert.Equal(t, "kgp", err.Alias)
	assert.Contains(t, err.Error(), "invalid when clause")
}

func TestErrorsAs(t *testing.T) {
	var err error = NewConfigurationError("/tmp/cfg.yml", "bad config", fmt.Errorf("boom"))

	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "/tmp/cfg.yml", cfgErr.Path)

	var idxErr *IndexError
	assert.False(t, errors.As(err, &idxErr))
}

func TestErrorsIs_WrappedCause(t *testing.T) {
	sentinel := errors.New("sentinel")
	wrapped := NewIndexError("/tmp/index.json", "load failed", sentinel)

	assert.True(t, errors.Is(wrapped, sentinel))
}

func TestCodeInterface(t *testing.T) {
	cases := []struct {
		err  TabsmithError
		code string
	}{
		{NewConfigurationError("p", "m", nil), "CONFIG_ERROR"},
		{NewIndexError("p", "m", nil), "INDEX_ERROR"},
		{NewExecutionError("c", "m", nil), "EXEC_ERROR"},
		{NewValidationError("f", "m", nil), "VALIDATION_ERROR"},
		{NewNotFoundError("r", "m"), "NOT_FOUND"},
		{NewAlreadyExistsError("r", "m"), "ALREADY_EXISTS"},
		{NewSetupError("p", "m", nil), "SETUP_ERROR"},
		{NewConditionError("a", "m", nil), "CONDITION_ERROR"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code())
	}
}
