// internal/handlers/locations_handler_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mfriesen/barstock-be/internal/core/domain"
	"github.com/mfriesen/barstock-be/internal/handlers"
	"github.com/mfriesen/barstock-be/test/helpers"
	"github.com/mfriesen/barstock-be/test/mocks"
)

func TestLocationsHandler_GetLocation(t *testing.T) {
	testLocation := helpers.CreateTestLocation("p-1")

	tests := []struct {
		name           string
		locationID     string
		setupMocks     func(*mocks.MockLocationStore)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name:       "successfully_retrieves_location",
			locationID: testLocation.ID,
			setupMocks: func(m *mocks.MockLocationStore) {
				m.EXPECT().
					GetByID(gomock.Any(), testLocation.ID).
					Return(testLocation, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response domain.Location
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, testLocation.ID, response.ID)
				assert.Equal(t, "Hauptbar", response.Name)
			},
		},
		{
			name:       "location_not_found",
			locationID: "missing-id",
			setupMocks: func(m *mocks.MockLocationStore) {
				m.EXPECT().
					GetByID(gomock.Any(), "missing-id").
					Return(nil, nil)
			},
			expectedStatus: http.StatusNotFound,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "Location not found", response["error"])
			},
		},
		{
			name:       "store_error",
			locationID: testLocation.ID,
			setupMocks: func(m *mocks.MockLocationStore) {
				m.EXPECT().
					GetByID(gomock.Any(), testLocation.ID).
					Return(nil, errors.New("database connection failed"))
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "Failed to retrieve location", response["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStore := mocks.NewMockLocationStore(ctrl)
			handler := handlers.NewLocationsHandler(mockStore, helpers.TestLogger())

			tt.setupMocks(mockStore)

			req := httptest.NewRequest("GET", "/api/v1/locations/"+tt.locationID, nil)
			req.SetPathValue("id", tt.locationID)
			w := httptest.NewRecorder()

			handler.GetLocation(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestLocationsHandler_ListLocations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockLocationStore(ctrl)
	handler := handlers.NewLocationsHandler(mockStore, helpers.TestLogger())

	mockStore.EXPECT().
		List(gomock.Any()).
		Return([]domain.Location{*helpers.CreateTestLocation()}, nil)

	req := httptest.NewRequest("GET", "/api/v1/locations", nil)
	w := httptest.NewRecorder()

	handler.ListLocations(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Locations []domain.Location `json:"locations"`
		Count     int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Count)
}

func TestLocationsHandler_CreateLocation(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockLocationStore)
		expectedStatus int
	}{
		{
			name: "creates_valid_location",
			body: `{"name":"Terrasse","counters":[{"name":"Außentresen","areas":[]}]}`,
			setupMocks: func(m *mocks.MockLocationStore) {
				m.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "rejects_invalid_json",
			body:           `{not json`,
			setupMocks:     func(m *mocks.MockLocationStore) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "rejects_missing_name",
			body:           `{"counters":[]}`,
			setupMocks:     func(m *mocks.MockLocationStore) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "store_error",
			body: `{"name":"Terrasse"}`,
			setupMocks: func(m *mocks.MockLocationStore) {
				m.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					Return(errors.New("write failed"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStore := mocks.NewMockLocationStore(ctrl)
			handler := handlers.NewLocationsHandler(mockStore, helpers.TestLogger())

			tt.setupMocks(mockStore)

			req := httptest.NewRequest("POST", "/api/v1/locations", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.CreateLocation(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestLocationsHandler_UpdateLocation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockLocationStore(ctrl)
	handler := handlers.NewLocationsHandler(mockStore, helpers.TestLogger())

	mockStore.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, l *domain.Location) error {
			assert.Equal(t, "l-1", l.ID)
			assert.Equal(t, "Keller", l.Name)
			return nil
		})

	req := httptest.NewRequest("PUT", "/api/v1/locations/l-1", bytes.NewBufferString(`{"name":"Keller"}`))
	req.SetPathValue("id", "l-1")
	w := httptest.NewRecorder()

	handler.UpdateLocation(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLocationsHandler_DeleteLocation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockLocationStore(ctrl)
	handler := handlers.NewLocationsHandler(mockStore, helpers.TestLogger())

	mockStore.EXPECT().
		Delete(gomock.Any(), "l-1").
		Return(nil)

	req := httptest.NewRequest("DELETE", "/api/v1/locations/l-1", nil)
	req.SetPathValue("id", "l-1")
	w := httptest.NewRecorder()

	handler.DeleteLocation(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "l-1", response["location_id"])
}
