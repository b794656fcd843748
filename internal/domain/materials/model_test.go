package materials

import (
	"encoding/json"
	"testing"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatch_Complete(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		details string
	}{
		{"empty", `{}`, "brand_id, mat_name, mat_inv, mat_alert"},
		{"blank name", `{"brand_id":1,"mat_name":" ","mat_inv":1,"mat_alert":1}`, "mat_name"},
		{"negative stock", `{"brand_id":1,"mat_name":"Cotton","mat_inv":-1,"mat_alert":1}`, "mat_inv must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Patch
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			ve, ok := apperr.AsValidation(p.Complete())
			require.True(t, ok)
			assert.Equal(t, tt.details, ve.Details)
		})
	}
}

func TestPatch_CompleteFillsOptional(t *testing.T) {
	var p Patch
	require.NoError(t, json.Unmarshal([]byte(`{"brand_id":1,"mat_name":"Cotton","mat_inv":40,"mat_alert":10}`), &p))

	require.NoError(t, p.Complete())
	require.NotNil(t, p.SKU)
	assert.Equal(t, "", *p.SKU)
	assert.True(t, p.ImgID.Set)
	assert.Nil(t, p.ImgID.Ptr())
}

func TestPatch_CheckOnlySeesSuppliedFields(t *testing.T) {
	var p Patch
	require.NoError(t, json.Unmarshal([]byte(`{"mat_alert":5}`), &p))
	assert.NoError(t, p.Check())
	assert.Nil(t, p.Stock)
}

func TestBelowAlert(t *testing.T) {
	assert.True(t, Material{Stock: 4, Alert: 5}.BelowAlert())
	assert.False(t, Material{Stock: 5, Alert: 5}.BelowAlert())
}

func TestCategoryPatch_Complete(t *testing.T) {
	var p CategoryPatch
	require.NoError(t, json.Unmarshal([]byte(`{"mc_name":"Yarn"}`), &p))

	ve, ok := apperr.AsValidation(p.Complete())
	require.True(t, ok)
	assert.Equal(t, "meas_id", ve.Details)
}
