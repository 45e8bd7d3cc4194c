package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmalakhov/service-center-api/models"
)

func carPayload(cat catalog, serialNumber string) map[string]interface{} {
	return map[string]interface{}{
		"serial_number": serialNumber,
		"model_id":      cat.model.ID,
		"customer_id":   cat.customer.ID,
	}
}

func TestCarEndpointCreate(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	cat := seedCatalog(t, db)

	w := performRequest(t, router, "POST", "/api/v1/cars", carPayload(cat, "WVWZZZ1JZXW000002"))

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataObject(t, decodeResponse(t, w))
	assert.Equal(t, "WVWZZZ1JZXW000002", data["serial_number"])
	assert.NotNil(t, data["model"], "Create should echo the model")
	assert.NotNil(t, data["customer"], "Create should echo the owner")
}

func TestCarEndpointCreate_Errors(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	cat := seedCatalog(t, db)

	tests := []struct {
		name        string
		mutate      func(payload map[string]interface{})
		expectedErr string
	}{
		{
			name:        "lowercase serial",
			mutate:      func(p map[string]interface{}) { p["serial_number"] = "wvwzzz1jzxw000002" },
			expectedErr: "VALIDATION_ERROR",
		},
		{
			name:        "serial with punctuation",
			mutate:      func(p map[string]interface{}) { p["serial_number"] = "WVWZZZ1JZXW-00002" },
			expectedErr: "VALIDATION_ERROR",
		},
		{
			name:        "unknown model",
			mutate:      func(p map[string]interface{}) { p["model_id"] = 9999 },
			expectedErr: "REFERENCE_NOT_FOUND",
		},
		{
			name:        "unknown customer",
			mutate:      func(p map[string]interface{}) { p["customer_id"] = 9999 },
			expectedErr: "REFERENCE_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := carPayload(cat, "WVWZZZ1JZXW000002")
			tt.mutate(payload)

			w := performRequest(t, router, "POST", "/api/v1/cars", payload)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.expectedErr, errorCode(t, decodeResponse(t, w)))
		})
	}
}

func TestCarEndpointCreate_DuplicateSerial(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	cat := seedCatalog(t, db)

	w := performRequest(t, router, "POST", "/api/v1/cars", carPayload(cat, cat.car.SerialNumber))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_KEY", errorCode(t, decodeResponse(t, w)))
}

func TestCarEndpointUpdate_SyncsOrderSerial(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	cat := seedCatalog(t, db)

	w := performRequest(t, router, "POST", "/api/v1/orders", orderPayload(cat, cat.brake.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := uint(dataObject(t, decodeResponse(t, w))["id"].(float64))

	w = performRequest(t, router, "PUT", fmt.Sprintf("/api/v1/cars/%d", cat.car.ID), carPayload(cat, "JH4KA8260MC000003"))
	assert.Equal(t, http.StatusOK, w.Code)

	var order models.Order
	require.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, "JH4KA8260MC000003", order.CarSerialNumber, "Orders must follow a serial number change")
}

func TestCarEndpointDelete_RestrictedByOrders(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	cat := seedCatalog(t, db)

	w := performRequest(t, router, "POST", "/api/v1/orders", orderPayload(cat, cat.brake.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(t, router, "DELETE", fmt.Sprintf("/api/v1/cars/%d", cat.car.ID), nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONSTRAINT_VIOLATION", errorCode(t, decodeResponse(t, w)))
}

func TestCarEndpointDelete(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	cat := seedCatalog(t, db)

	w := performRequest(t, router, "DELETE", fmt.Sprintf("/api/v1/cars/%d", cat.car.ID), nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Car{}).Where("id = ?", cat.car.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCarEndpointList_Filters(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	cat := seedCatalog(t, db)

	otherModel := models.RepairableModel{Name: "Model Y", Manufacturer: "Acme Motors"}
	require.NoError(t, db.Create(&otherModel).Error)
	otherCar := models.Car{
		SerialNumber: "WVWZZZ1JZXW000002",
		ModelID:      otherModel.ID,
		CustomerID:   cat.customer.ID,
	}
	require.NoError(t, db.Create(&otherCar).Error)

	t.Run("serial substring", func(t *testing.T) {
		w := performRequest(t, router, "GET", "/api/v1/cars?serial=1HGCM", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeResponse(t, w)
		assert.Len(t, response["data"], 1)
	})

	t.Run("model filter", func(t *testing.T) {
		w := performRequest(t, router, "GET", fmt.Sprintf("/api/v1/cars?model_id=%d", otherModel.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeResponse(t, w)
		cars, ok := response["data"].([]interface{})
		require.True(t, ok)
		require.Len(t, cars, 1)
		assert.Equal(t, "WVWZZZ1JZXW000002", cars[0].(map[string]interface{})["serial_number"])
	})
}
