package variations

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func materialRow(v Variation, matID, stock, amount int64, name string) GraphRow {
	return GraphRow{
		Variation:    v,
		MaterialID:   ptr(matID),
		MaterialName: ptr(name),
		SKU:          ptr("SKU-" + name),
		Stock:        ptr(stock),
		Amount:       ptr(amount),
		BrandName:    ptr("Acme"),
		CategoryName: ptr("Fabric"),
		Unit:         ptr("yards"),
	}
}

func TestAssemble_GroupsByVariationInOrder(t *testing.T) {
	a := Variation{ID: 7, ProductID: 1, Name: "Blue", Inventory: 3, Goal: 5}
	b := Variation{ID: 9, ProductID: 1, Name: "Red"}

	got := Assemble([]GraphRow{
		materialRow(a, 1, 10, 2, "Cotton"),
		materialRow(a, 4, 50, 1, "Thread"),
		{Variation: b},
	})

	require.Len(t, got, 2)
	assert.Equal(t, int64(7), got[0].ID)
	require.Len(t, got[0].Materials, 2)
	assert.Equal(t, MaterialLine{
		ID: 1, Name: "Cotton", SKU: "SKU-Cotton", Stock: 10, Amount: 2,
		BrandName: "Acme", CategoryName: "Fabric", Unit: "yards",
	}, got[0].Materials[0])
	assert.Equal(t, int64(4), got[0].Materials[1].ID)

	assert.Equal(t, int64(9), got[1].ID)
	assert.NotNil(t, got[1].Materials)
	assert.Empty(t, got[1].Materials)
}

func TestAssemble_NoMaterialsSerializesAsEmptyArray(t *testing.T) {
	got := Assemble([]GraphRow{{Variation: Variation{ID: 3, Name: "Solo"}}})
	require.Len(t, got, 1)

	raw, err := json.Marshal(got[0])
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, []any{}, decoded["materials"])
	assert.Equal(t, float64(3), decoded["var_id"])
	assert.Nil(t, decoded["img_id"])
}

func TestAssemble_Empty(t *testing.T) {
	got := Assemble(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
