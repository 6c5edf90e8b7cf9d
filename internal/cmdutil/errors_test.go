package cmdutil

import (
	"errors"
	"testing"
)

func TestExitError(t *testing.T) {
	err := &ExitError{Code: 3}
	if err.Error() != "exit status 3" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestFlagErrorf(t *testing.T) {
	err := FlagErrorf("unknown flag %q", "--bogus")

	var flagErr *FlagError
	if !errors.As(err, &flagErr) {
		t.Fatal("FlagErrorf should produce a *FlagError")
	}
	if flagErr.Error() != `unknown flag "--bogus"` {
		t.Errorf("Error() = %q", flagErr.Error())
	}
}

func TestFlagErrorWrap(t *testing.T) {
	underlying := errors.New("bad argument")
	err := FlagErrorWrap(underlying)

	if !errors.Is(err, underlying) {
		t.Error("FlagErrorWrap should preserve the underlying error")
	}
}
