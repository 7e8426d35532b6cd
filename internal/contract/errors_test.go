package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Status(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{Validation(7, "title is required"), http.StatusBadRequest},
		{Permission(20, "no permission"), http.StatusBadRequest},
		{Conflict(6, "alias"), http.StatusBadRequest},
		{NotFound(30, "workspace not found"), http.StatusNotFound},
		{Unauthorized("company mismatch"), http.StatusUnauthorized},
		{Unprocessable(1, "bad body"), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(string(tt.err.Kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Status())
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func TestStatusOf_UncodedIsFatal(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("disk full")))
	assert.Equal(t, http.StatusOK, StatusOf(nil))
}

func TestAsError_Wrapped(t *testing.T) {
	err := fmt.Errorf("creating task: %w", Validation(85, "priority must be between 0 and 100"))

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, 85, e.ID)
	assert.Equal(t, KindValidation, e.Kind)

	_, ok = AsError(errors.New("plain"))
	assert.False(t, ok)
}

func TestError_JSONBody(t *testing.T) {
	data, err := json.Marshal(NotFound(10, "company %d not found", 4))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":10,"text":"company 4 not found"}`, string(data))
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "VALIDATION #7: title is required", Validation(7, "title is required").Error())
}
