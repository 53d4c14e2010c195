package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/projectboard/internal/adapters/http/dto"
	"github.com/jsamuelsen11/projectboard/internal/domain/constraint"
	"github.com/jsamuelsen11/projectboard/internal/domain/project"
)

func TestToProjectResponse_JSONShape(t *testing.T) {
	t.Parallel()

	p := project.Project{ID: "abc", Title: "Alpha", People: 2}

	b, err := json.Marshal(dto.ToProjectResponse(&p))
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":"abc","title":"Alpha","description":"","people":2,"completed":false}`, string(b))
}

func TestToProjectListResponse(t *testing.T) {
	t.Parallel()

	t.Run("empty encodes as array", func(t *testing.T) {
		t.Parallel()

		b, err := json.Marshal(dto.ToProjectListResponse(nil))
		require.NoError(t, err)
		assert.JSONEq(t, `{"projects":[],"count":0}`, string(b))
	})

	t.Run("preserves order", func(t *testing.T) {
		t.Parallel()

		got := dto.ToProjectListResponse([]project.Project{{ID: "1"}, {ID: "2"}, {ID: "3"}})

		require.Len(t, got.Projects, 3)
		assert.Equal(t, 3, got.Count)
		assert.Equal(t, "1", got.Projects[0].ID)
		assert.Equal(t, "3", got.Projects[2].ID)
	})
}

func TestToValidateResponse(t *testing.T) {
	t.Parallel()

	valid := dto.ToValidateResponse(nil)
	b, err := json.Marshal(valid)
	require.NoError(t, err)
	assert.JSONEq(t, `{"valid":true,"violations":[]}`, string(b))

	invalid := dto.ToValidateResponse([]constraint.Violation{{Rule: constraint.RuleRequired, Message: "is required"}})
	assert.False(t, invalid.Valid)
	assert.Equal(t, []dto.ViolationResponse{{Rule: "required", Message: "is required"}}, invalid.Violations)
}
