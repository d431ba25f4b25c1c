package controller

import (
	"net/http"
	"testing"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoursController_ReplaceAndGet(t *testing.T) {
	env := setupControllerTest(t)
	vendor, owner := env.seedVendor(t, "Alpha")
	token := tokenFor(t, owner)
	path := "/api/v1/vendors/" + itoa(vendor.ID) + "/hours"

	w := env.do(t, http.MethodPut, path, token, map[string]DayRequest{
		"0": {Open: "09:00", Close: "17:00"},
		"6": {Closed: true},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["hours"], 2)

	w = env.do(t, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	hours := decode(t, w)["hours"].([]interface{})
	require.Len(t, hours, 2)
	monday := hours[0].(map[string]interface{})
	assert.EqualValues(t, 0, monday["day_of_week"])
	assert.Equal(t, "09:00", monday["open_time"])
	sunday := hours[1].(map[string]interface{})
	assert.Equal(t, true, sunday["is_closed"])
	assert.Nil(t, sunday["open_time"])
}

func TestHoursController_InvalidInput(t *testing.T) {
	env := setupControllerTest(t)
	vendor, owner := env.seedVendor(t, "Alpha")
	token := tokenFor(t, owner)
	path := "/api/v1/vendors/" + itoa(vendor.ID) + "/hours"

	tests := []struct {
		name string
		body interface{}
	}{
		{"non numeric day", map[string]DayRequest{"monday": {Open: "09:00", Close: "17:00"}}},
		{"day out of range", map[string]DayRequest{"7": {Open: "09:00", Close: "17:00"}}},
		{"bad clock", map[string]DayRequest{"1": {Open: "9am", Close: "17:00"}}},
		{"not an object", []string{"09:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPut, path, token, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&model.VendorHours{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestHoursController_OtherAccountsForbidden(t *testing.T) {
	env := setupControllerTest(t)
	vendor, _ := env.seedVendor(t, "Alpha")
	_, rival := env.seedVendor(t, "Bravo")
	admin := env.seedUser(t, "admin@example.com", model.RoleAdmin)
	path := "/api/v1/vendors/" + itoa(vendor.ID) + "/hours"

	for _, user := range []*model.User{rival, admin} {
		w := env.do(t, http.MethodGet, path, tokenFor(t, user), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	}

	w := env.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
