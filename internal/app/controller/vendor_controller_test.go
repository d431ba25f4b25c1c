package controller

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestVendorController_UpdateVendor(t *testing.T) {
	env := setupControllerTest(t)
	vendor, owner := env.seedVendor(t, "Alpha")
	path := "/api/v1/vendors/" + itoa(vendor.ID)

	w := env.do(t, http.MethodPut, path, tokenFor(t, owner), map[string]string{
		"description": "Street tacos",
		"website":     "https://alpha.example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode(t, w)["vendor"].(map[string]interface{})
	assert.Equal(t, "Alpha", updated["name"])
	assert.Equal(t, "Street tacos", updated["description"])

	w = env.do(t, http.MethodPut, path, tokenFor(t, owner), map[string]string{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, rival := env.seedVendor(t, "Bravo")
	w = env.do(t, http.MethodPut, path, tokenFor(t, rival), map[string]string{"name": "Stolen"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestVendorController_UploadLogo(t *testing.T) {
	env := setupControllerTest(t)
	vendor, owner := env.seedVendor(t, "Alpha")
	token := tokenFor(t, owner)
	path := "/api/v1/vendors/" + itoa(vendor.ID) + "/logo"

	w := env.upload(t, path, token, "photo", "logo.png", []byte("png-bytes"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	url := decode(t, w)["logo_url"].(string)
	require.True(t, strings.HasPrefix(url, "/media/logos/"))

	stored := filepath.Join(env.media.Dir(), strings.TrimPrefix(url, "/media/"))
	content, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), content)

	// replacing removes the previous file
	w = env.upload(t, path, token, "photo", "logo.jpg", []byte("jpg-bytes"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))
}

func TestVendorController_UploadLogo_Rejected(t *testing.T) {
	env := setupControllerTest(t)
	vendor, owner := env.seedVendor(t, "Alpha")
	token := tokenFor(t, owner)
	path := "/api/v1/vendors/" + itoa(vendor.ID) + "/logo"

	tests := []struct {
		name     string
		field    string
		filename string
		content  []byte
		code     string
	}{
		{"missing file", "", "", nil, "UPLOAD_MISSING_FILE"},
		{"wrong type", "photo", "logo.bmp", []byte("x"), "UPLOAD_INVALID_FILE_TYPE"},
		{"too large", "photo", "logo.png", bytes.Repeat([]byte("x"), 2048), "UPLOAD_FILE_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.upload(t, path, token, tt.field, tt.filename, tt.content, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, decode(t, w)["error"])
		})
	}
}

func TestVendorController_Deactivate(t *testing.T) {
	env := setupControllerTest(t)
	vendor, owner := env.seedVendor(t, "Alpha")
	admin := env.seedUser(t, "admin@example.com", model.RoleAdmin)
	path := "/api/v1/admin/vendors/" + itoa(vendor.ID) + "/deactivate"

	w := env.do(t, http.MethodPut, path, tokenFor(t, owner), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPut, path, tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/vendors", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["count"])
}

func TestVendorController_ExportVendors(t *testing.T) {
	env := setupControllerTest(t)
	env.seedVendor(t, "Alpha")
	env.seedVendor(t, "Bravo")
	admin := env.seedUser(t, "admin@example.com", model.RoleAdmin)

	w := env.do(t, http.MethodGet, "/api/v1/admin/vendors/export", tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=\"vendors-")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(service.VendorExportSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
