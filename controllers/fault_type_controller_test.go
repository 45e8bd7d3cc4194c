package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmalakhov/service-center-api/models"
)

func faultTypePayload(modelID uint) map[string]interface{} {
	return map[string]interface{}{
		"description":    "Clutch slipping",
		"repair_methods": "Replace clutch kit",
		"repair_cost":    320.50,
		"model_id":       modelID,
	}
}

func TestFaultTypeEndpointCreate(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	cat := seedCatalog(t, db)

	w := performRequest(t, router, "POST", "/api/v1/fault-types", faultTypePayload(cat.model.ID))

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataObject(t, decodeResponse(t, w))
	assert.Equal(t, "Clutch slipping", data["description"])
	assert.Equal(t, 320.50, data["repair_cost"])
	assert.NotNil(t, data["model"], "Create should echo the owning model")
}

func TestFaultTypeEndpointCreate_UnknownModel(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	w := performRequest(t, router, "POST", "/api/v1/fault-types", faultTypePayload(9999))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	response := decodeResponse(t, w)
	assert.Equal(t, "REFERENCE_NOT_FOUND", errorCode(t, response))
}

func TestFaultTypeEndpointCreate_NegativeCost(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	cat := seedCatalog(t, db)

	payload := faultTypePayload(cat.model.ID)
	payload["repair_cost"] = -1.00

	w := performRequest(t, router, "POST", "/api/v1/fault-types", payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, decodeResponse(t, w)))
}

func TestFaultTypeEndpointList_ModelFilter(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	cat := seedCatalog(t, db)

	otherModel := models.RepairableModel{Name: "Model Y", Manufacturer: "Acme Motors"}
	require.NoError(t, db.Create(&otherModel).Error)
	otherFault := models.FaultType{
		Description:   "Battery drain",
		RepairMethods: "Replace battery",
		RepairCost:    200.00,
		ModelID:       otherModel.ID,
	}
	require.NoError(t, db.Create(&otherFault).Error)

	w := performRequest(t, router, "GET", fmt.Sprintf("/api/v1/fault-types?model_id=%d", cat.model.ID), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	faultTypes, ok := response["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, faultTypes, 2, "Only the requested model's faults should be listed")
}

func TestFaultTypeEndpointUpdate(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	cat := seedCatalog(t, db)

	payload := faultTypePayload(cat.model.ID)
	payload["description"] = "Brake pad wear"
	payload["repair_cost"] = 175.00

	w := performRequest(t, router, "PUT", fmt.Sprintf("/api/v1/fault-types/%d", cat.brake.ID), payload)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataObject(t, decodeResponse(t, w))
	assert.Equal(t, 175.00, data["repair_cost"])
}

func TestFaultTypeEndpointDelete(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	cat := seedCatalog(t, db)

	w := performRequest(t, router, "DELETE", fmt.Sprintf("/api/v1/fault-types/%d", cat.oil.ID), nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.FaultType{}).Where("id = ?", cat.oil.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFaultTypeEndpointDelete_RestrictedByOrders(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	cat := seedCatalog(t, db)

	w := performRequest(t, router, "POST", "/api/v1/orders", orderPayload(cat, cat.oil.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(t, router, "DELETE", fmt.Sprintf("/api/v1/fault-types/%d", cat.oil.ID), nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONSTRAINT_VIOLATION", errorCode(t, decodeResponse(t, w)))

	var count int64
	require.NoError(t, db.Model(&models.FaultType{}).Where("id = ?", cat.oil.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFaultTypeEndpointDelete_NotFound(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	w := performRequest(t, router, "DELETE", "/api/v1/fault-types/9999", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, decodeResponse(t, w)))
}
