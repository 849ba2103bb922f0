package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"sickstat/domain/core"
)

func TestFromDomain_Classification(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"malformed", core.NewMalformedRecordError(2, `1,2,"X"`, "bad gender"), CodeMalformedData, http.StatusUnprocessableEntity},
		{"insufficient", core.NewInsufficientSampleError("men", 1), CodeInsufficientData, http.StatusUnprocessableEntity},
		{"degenerate", core.NewDegenerateVarianceError("men", "women"), CodeDegenerateData, http.StatusUnprocessableEntity},
		{"bounds", core.NewInvalidBoundsError("alpha", "2 is outside [0, 1]"), CodeInvalidParameters, http.StatusBadRequest},
		{"wrapped bounds", fmt.Errorf("analyze: %w", core.NewInvalidBoundsError("age", "x")), CodeInvalidParameters, http.StatusBadRequest},
		{"other", stderrors.New("boom"), CodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromDomain(tt.err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.status, HTTPStatus(appErr.Code))
			assert.True(t, stderrors.Is(appErr, tt.err))
		})
	}
}

func TestFromDomain_MessagesAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, err := range []error{
		core.ErrMalformedRecord, core.ErrInsufficientSample, core.ErrDegenerateVariance, core.ErrInvalidBounds,
	} {
		msg := FromDomain(err).Message
		assert.False(t, seen[msg], "duplicate message %q", msg)
		seen[msg] = true
	}
}

func TestFromDomain_PassesAppErrorThrough(t *testing.T) {
	orig := InvalidInput("missing file")
	assert.Same(t, orig, FromDomain(orig))
	assert.Nil(t, FromDomain(nil))
}

func TestWrap_KeepsCode(t *testing.T) {
	err := Wrap(ConfigInvalid("PORT is empty"), "failed to load server configuration")
	assert.Equal(t, CodeConfigInvalid, GetCode(err))
	assert.Contains(t, err.Error(), "PORT is empty")

	assert.Equal(t, CodeInternalError, GetCode(Wrap(stderrors.New("x"), "y")))
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}
