package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/localnerve/roadmapdb/internal/services"
	"github.com/localnerve/roadmapdb/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("lookup: %w", services.ErrNotFound), 404, types.CodeNotFound},
		{"duplicate", services.NewDuplicateError("name taken"), 400, types.CodeDuplicate},
		{"validation", services.NewValidationError("title", "is required"), 400, types.CodeValidation},
		{"custom", types.NewAuthError(403, types.CodeAdminRequired, "no"), 403, types.CodeAdminRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var custom *types.CustomError
			require.True(t, errors.As(serviceError(tc.err, "Thing not found"), &custom))
			assert.Equal(t, tc.status, custom.Status)
			assert.Equal(t, tc.code, custom.Code)
		})
	}

	raw := errors.New("connection reset")
	assert.Same(t, raw, serviceError(raw, ""))
	assert.Nil(t, serviceError(nil, ""))
}

func TestValidatorUsesJSONNames(t *testing.T) {
	in := services.RegisterInput{Username: "ok", Email: "broken", Password: "secret1"}
	err := validate.Struct(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'email'")
}
