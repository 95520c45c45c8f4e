package dferr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tvrusso/dflib/dferr"
)

func TestErrorMessage(t *testing.T) {
	err := dferr.New(dferr.KindSingularSystem, "det(AtA) below epsilon")
	assert.Equal(t, "singular system: det(AtA) below epsilon", err.Error())
}

func TestErrorMessageNoMsg(t *testing.T) {
	err := dferr.New(dferr.KindBracketFailure, "")
	assert.Equal(t, "bracket failure", err.Error())
}

func TestErrorIsMatchesKindOnly(t *testing.T) {
	sentinel := dferr.New(dferr.KindInsufficientReports, "")
	wrapped := fmt.Errorf("computing fix: %w", dferr.New(dferr.KindInsufficientReports, "need >= 2 valid reports"))
	assert.True(t, errors.Is(wrapped, sentinel))

	other := dferr.New(dferr.KindSingularSystem, "")
	assert.False(t, errors.Is(wrapped, other))
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("bad token")
	err := dferr.Wrap(dferr.KindProjectionInit, "parsing projection spec", cause)
	assert.ErrorIs(t, err, cause)
}
