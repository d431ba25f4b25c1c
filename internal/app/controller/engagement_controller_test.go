package controller

import (
	"net/http"
	"testing"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngagementController_ToggleVendor(t *testing.T) {
	env := setupControllerTest(t)
	vendor, _ := env.seedVendor(t, "Alpha")
	fan := env.seedUser(t, "fan@example.com", model.RoleCustomer)
	token := tokenFor(t, fan)
	base := "/api/v1/vendors/" + itoa(vendor.ID)

	w := env.do(t, http.MethodPost, base+"/like", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["liked"])
	assert.EqualValues(t, 1, body["likes"])

	w = env.do(t, http.MethodPost, base+"/like", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, false, body["liked"])
	assert.EqualValues(t, 0, body["likes"])

	w = env.do(t, http.MethodPost, base+"/save", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, true, body["saved"])
	assert.EqualValues(t, 1, body["saves"])
}

func TestEngagementController_ToggleErrors(t *testing.T) {
	env := setupControllerTest(t)
	fan := env.seedUser(t, "fan@example.com", model.RoleCustomer)

	w := env.do(t, http.MethodPost, "/api/v1/vendors/42/like", tokenFor(t, fan), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "VENDOR_NOT_FOUND", decode(t, w)["error"])

	w = env.do(t, http.MethodPost, "/api/v1/reels/42/save", tokenFor(t, fan), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "REEL_NOT_FOUND", decode(t, w)["error"])

	w = env.do(t, http.MethodPost, "/api/v1/reels/42/like", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEngagementController_LikedAndSavedVendors(t *testing.T) {
	env := setupControllerTest(t)
	alpha, _ := env.seedVendor(t, "Alpha")
	bravo, _ := env.seedVendor(t, "Bravo")
	fan := env.seedUser(t, "fan@example.com", model.RoleCustomer)
	other := env.seedUser(t, "other@example.com", model.RoleCustomer)
	token := tokenFor(t, fan)

	for _, id := range []uint{alpha.ID, bravo.ID} {
		w := env.do(t, http.MethodPost, "/api/v1/vendors/"+itoa(id)+"/like", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := env.do(t, http.MethodPost, "/api/v1/vendors/"+itoa(bravo.ID)+"/save", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/users/"+itoa(fan.ID)+"/liked-vendors", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["count"])

	w = env.do(t, http.MethodGet, "/api/v1/users/"+itoa(fan.ID)+"/saved-vendors", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	saved := decode(t, w)["vendors"].([]interface{})
	require.Len(t, saved, 1)
	assert.Equal(t, "Bravo", saved[0].(map[string]interface{})["name"])

	w = env.do(t, http.MethodGet, "/api/v1/users/"+itoa(fan.ID)+"/liked-vendors", tokenFor(t, other), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "AUTHZ_SELF_ONLY", decode(t, w)["error"])
}

func TestEngagementController_ListReels(t *testing.T) {
	env := setupControllerTest(t)
	vendor, _ := env.seedVendor(t, "Alpha")
	reel := &model.Reel{VendorID: vendor.ID, Caption: "Lunch", VideoURL: "/media/reels/1/a.mp4", MediaKey: "reels/1/a.mp4"}
	require.NoError(t, env.db.Create(reel).Error)

	fan := env.seedUser(t, "fan@example.com", model.RoleCustomer)
	w := env.do(t, http.MethodPost, "/api/v1/reels/"+itoa(reel.ID)+"/like", tokenFor(t, fan), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/reels", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	reels := decode(t, w)["reels"].([]interface{})
	require.Len(t, reels, 1)
	item := reels[0].(map[string]interface{})
	assert.Equal(t, "Alpha", item["vendor_name"])
	assert.Equal(t, "Lunch", item["caption"])
	assert.EqualValues(t, 1, item["likes"])
}
