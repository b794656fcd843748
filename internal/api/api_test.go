package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/frostedfabrics/inventory-api/internal/domain/inventory"
	"github.com/frostedfabrics/inventory-api/internal/domain/materials"
	"github.com/frostedfabrics/inventory-api/internal/domain/variations"
	"github.com/frostedfabrics/inventory-api/internal/infra/logger"
	"github.com/frostedfabrics/inventory-api/internal/infra/xlsx"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = logger.Discard()
	}
	r := gin.New()
	New(d).Register(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") && w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func TestUpdateVariation_InsufficientStock(t *testing.T) {
	rec := &fakeReconciler{err: apperr.InsufficientStock(100, "needs 15 of mat_id 100, 10 in stock")}
	r := newRouter(Deps{Reconciler: rec})

	w, body := do(t, r, http.MethodPatch, "/api/productvariations/1", `{"var_inv":15}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Insufficient material inventory", body["error"])
	assert.EqualValues(t, 100, body["material_id"])
	assert.NotEmpty(t, body["details"])
}

func TestUpdateVariation_PatchPassesOnlySuppliedFields(t *testing.T) {
	rec := &fakeReconciler{graph: &variations.Graph{
		Variation: variations.Variation{ID: 1, ProductID: 2, Name: "Blue", Inventory: 7, Goal: 10},
		Materials: []variations.MaterialLine{},
	}}
	r := newRouter(Deps{Reconciler: rec})

	w, body := do(t, r, http.MethodPatch, "/api/productvariations/1", `{"var_inv":7}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, rec.got, 1)
	u := rec.got[0]
	require.NotNil(t, u.Inventory)
	assert.EqualValues(t, 7, *u.Inventory)
	assert.Nil(t, u.Name)
	assert.Nil(t, u.ProductID)
	assert.False(t, u.ImgID.Set)

	assert.EqualValues(t, 7, body["var_inv"])
	assert.Equal(t, []any{}, body["materials"])
}

func TestUpdateVariation_PutRequiresEveryField(t *testing.T) {
	rec := &fakeReconciler{}
	r := newRouter(Deps{Reconciler: rec})

	w, body := do(t, r, http.MethodPut, "/api/productvariations/1", `{"var_inv":3}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required fields", body["error"])
	assert.Contains(t, body["details"], "var_name")
	assert.Empty(t, rec.got)
}

func TestUpdateVariation_NotFound(t *testing.T) {
	r := newRouter(Deps{Reconciler: &fakeReconciler{err: apperr.ErrNotFound}})

	w, body := do(t, r, http.MethodPatch, "/api/productvariations/99", `{"var_goal":1}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Resource not found", body["error"])
}

func TestInvalidPathID(t *testing.T) {
	r := newRouter(Deps{Reconciler: &fakeReconciler{}})

	for _, path := range []string{"/api/productvariations/abc", "/api/productvariations/0", "/api/productvariations/-4"} {
		w, body := do(t, r, http.MethodPatch, path, `{"var_goal":1}`)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, "Invalid ID", body["error"], path)
	}
}

func TestMalformedBody(t *testing.T) {
	r := newRouter(Deps{Reconciler: &fakeReconciler{}})

	w, body := do(t, r, http.MethodPatch, "/api/productvariations/1", `{"var_inv":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", body["error"])
}

func TestDataAccessErrorIsOpaque(t *testing.T) {
	cause := apperr.DataAccess("read", errors.New("password authentication failed for user secret"))
	r := newRouter(Deps{Materials: fakeMaterials{err: cause}})

	w, body := do(t, r, http.MethodGet, "/api/measurements/1", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", body["error"])
	assert.Equal(t, "The database operation could not be completed", body["details"])
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestGetMeasurement(t *testing.T) {
	r := newRouter(Deps{Materials: fakeMaterials{
		measurements: map[int64]materials.Measurement{1: {ID: 1, Unit: "yards"}},
	}})

	t.Run("known", func(t *testing.T) {
		w, body := do(t, r, http.MethodGet, "/api/measurements/1", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "yards", body["meas_unit"])
	})

	t.Run("unknown id gets a placeholder", func(t *testing.T) {
		w, body := do(t, r, http.MethodGet, "/api/measurements/42", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 42, body["meas_id"])
		assert.Equal(t, "units", body["meas_unit"])
	})
}

func TestUpsertBOMLine(t *testing.T) {
	wd := newWorld()
	wd.variations[1] = variations.Variation{ID: 1, ProductID: 1, Name: "Blue"}
	wd.materials[100] = true
	r := newRouter(Deps{BOM: fakeBOM{w: wd}})

	t.Run("unknown material", func(t *testing.T) {
		w, body := do(t, r, http.MethodPost, "/api/variationmaterials", `{"var_id":1,"mat_id":999,"mat_amount":2}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid variation or material ID", body["error"])
		assert.Empty(t, wd.bom)
	})

	t.Run("missing amount", func(t *testing.T) {
		w, body := do(t, r, http.MethodPost, "/api/variationmaterials", `{"var_id":1,"mat_id":100}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Missing required fields", body["error"])
	})

	t.Run("create then replace", func(t *testing.T) {
		w, body := do(t, r, http.MethodPost, "/api/variationmaterials", `{"var_id":1,"mat_id":100,"mat_amount":2}`)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.EqualValues(t, 2, body["mat_amount"])

		w, _ = do(t, r, http.MethodPost, "/api/variationmaterials", `{"var_id":1,"mat_id":100,"mat_amount":5}`)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Len(t, wd.bom, 1)
		assert.EqualValues(t, 5, wd.bom[[2]int64{1, 100}])
	})

	t.Run("patch requires amount", func(t *testing.T) {
		w, _ := do(t, r, http.MethodPatch, "/api/variationmaterials/1/100", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete missing line", func(t *testing.T) {
		w, _ := do(t, r, http.MethodDelete, "/api/variationmaterials/1/555", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteProductCategoryCascades(t *testing.T) {
	wd := newWorld()
	wd.categories[1] = true
	wd.products[1] = 1
	wd.variations[1] = variations.Variation{ID: 1, ProductID: 1, Name: "Blue"}
	wd.materials[100] = true
	wd.bom[[2]int64{1, 100}] = 2

	r := newRouter(Deps{
		Variations: fakeVariations{w: wd},
		Deleter:    fakeDeleter{w: wd},
		BOM:        fakeBOM{w: wd},
	})

	w, _ := do(t, r, http.MethodGet, "/api/productvariations/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w, body := do(t, r, http.MethodDelete, "/api/productcategories/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	removed, ok := body["removed"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, removed["products"])
	assert.EqualValues(t, 1, removed["variation_materials"])

	w, _ = do(t, r, http.MethodGet, "/api/productvariations/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	lines := httptest.NewRecorder()
	r.ServeHTTP(lines, httptest.NewRequest(http.MethodGet, "/api/variationmaterials?variation=1", nil))
	assert.JSONEq(t, `[]`, lines.Body.String())

	w, _ = do(t, r, http.MethodDelete, "/api/productcategories/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateVariation_UnknownProduct(t *testing.T) {
	wd := newWorld()
	r := newRouter(Deps{Variations: fakeVariations{w: wd}})

	w, body := do(t, r, http.MethodPost, "/api/productvariations",
		`{"prod_id":9,"var_name":"Blue","var_inv":0,"var_goal":5}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid product ID", body["error"])
	assert.Empty(t, wd.variations)
}

func TestCreateVariation_GraphReadFailureLogged(t *testing.T) {
	wd := newWorld()
	wd.products[1] = 1
	var logs bytes.Buffer
	r := newRouter(Deps{
		Variations: brokenGraphVariations{fakeVariations: fakeVariations{w: wd}, err: errors.New("conn reset")},
		Log:        logger.NewWithWriter("prod", &logs),
	})

	w, body := do(t, r, http.MethodPost, "/api/productvariations",
		`{"prod_id":1,"var_name":"Blue","var_inv":0,"var_goal":5}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Blue", body["var_name"])
	assert.Equal(t, []any{}, body["materials"])
	assert.Contains(t, logs.String(), "variation graph read failed")
	assert.Contains(t, logs.String(), "conn reset")
}

func TestGraphCacheInvalidatedByWrites(t *testing.T) {
	wd := newWorld()
	wd.products[1] = 1
	wd.variations[1] = variations.Variation{ID: 1, ProductID: 1, Name: "Blue", Inventory: 1}
	gc := &countingCache{}
	rec := &fakeReconciler{graph: &variations.Graph{Variation: wd.variations[1], Materials: []variations.MaterialLine{}}}
	r := newRouter(Deps{
		Variations: fakeVariations{w: wd},
		Reconciler: rec,
		Cache:      gc,
	})

	w, _ := do(t, r, http.MethodGet, "/api/productvariations/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, gc.stored, 1)
	assert.Equal(t, 0, gc.bumps)

	rec.err = apperr.Invalid("Insufficient material inventory")
	w, _ = do(t, r, http.MethodPatch, "/api/productvariations/1", `{"var_inv":50}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, gc.bumps, "rejected writes keep the cache")

	rec.err = nil
	w, _ = do(t, r, http.MethodPatch, "/api/productvariations/1", `{"var_inv":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, gc.bumps)
	assert.Empty(t, gc.stored)
}

func TestImportStock(t *testing.T) {
	var sheet bytes.Buffer
	require.NoError(t, xlsx.WriteStock(&sheet, []materials.Material{
		{ID: 100, Name: "Cotton", Stock: 40},
		{ID: 101, Name: "Thread", Stock: 7},
	}))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "stock.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(sheet.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	rec := &fakeReconciler{}
	r := newRouter(Deps{Reconciler: rec})

	req := httptest.NewRequest(http.MethodPost, "/api/materials/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []inventory.StockCount{
		{MaterialID: 100, Stock: 40},
		{MaterialID: 101, Stock: 7},
	}, rec.counts)
}

func TestImportStock_MissingFile(t *testing.T) {
	r := newRouter(Deps{Reconciler: &fakeReconciler{}})

	w, body := do(t, r, http.MethodPost, "/api/materials/import", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", body["error"])
}

func TestExportStock(t *testing.T) {
	r := newRouter(Deps{Materials: fakeMaterials{list: []materials.Material{{ID: 100, Name: "Cotton", Stock: 40}}}})

	req := httptest.NewRequest(http.MethodGet, "/api/materials/export", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "materials_")

	counts, err := xlsx.ReadStockCounts(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []inventory.StockCount{{MaterialID: 100, Stock: 40}}, counts)
}
