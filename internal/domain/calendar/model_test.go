package calendar

import (
	"encoding/json"
	"testing"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventPatch_Complete(t *testing.T) {
	var p EventPatch
	require.NoError(t, json.Unmarshal([]byte(`{"event_title":"Market day","event_start":"2024-05-04T09:00:00Z"}`), &p))

	require.NoError(t, p.Complete())
	assert.True(t, p.CategoryID.Set)
	assert.False(t, p.CategoryID.Valid)
	assert.True(t, p.End.Set)
	assert.True(t, p.Notes.Set)
}

func TestEventPatch_CompleteMissing(t *testing.T) {
	var p EventPatch
	require.NoError(t, json.Unmarshal([]byte(`{"event_notes":"bring cards"}`), &p))

	ve, ok := apperr.AsValidation(p.Complete())
	require.True(t, ok)
	assert.Equal(t, "event_title, event_start", ve.Details)
}

func TestEventPatch_EndBeforeStart(t *testing.T) {
	var p EventPatch
	require.NoError(t, json.Unmarshal([]byte(
		`{"event_title":"x","event_start":"2024-05-04T09:00:00Z","event_end":"2024-05-04T08:00:00Z"}`), &p))

	_, ok := apperr.AsValidation(p.Check())
	assert.True(t, ok)
}

func TestEventPatch_ExplicitNullClearsEnd(t *testing.T) {
	var p EventPatch
	require.NoError(t, json.Unmarshal([]byte(`{"event_end":null}`), &p))

	assert.True(t, p.End.Set)
	assert.False(t, p.End.Valid)
	assert.NoError(t, p.Check())
}

func TestCategoryPatch_DefaultsColor(t *testing.T) {
	name := "Shows"
	p := CategoryPatch{Name: &name}
	require.NoError(t, p.Complete())
	require.NotNil(t, p.Color)
	assert.Equal(t, "", *p.Color)
}
