// internal/handlers/snapshot_handler_test.go
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

func TestSnapshotHandler_GetSnapshot(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(*mocks.MockSnapshotService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "returns_full_snapshot",
			setupMocks: func(m *mocks.MockSnapshotService) {
				m.EXPECT().
					LoadAll(gomock.Any()).
					Return(helpers.CreateTestSnapshot(3), nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response domain.Snapshot
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Len(t, response.Products, 3)
				assert.Len(t, response.Locations, 1)
				assert.NotNil(t, response.State)
			},
		},
		{
			name: "service_error",
			setupMocks: func(m *mocks.MockSnapshotService) {
				m.EXPECT().
					LoadAll(gomock.Any()).
					Return(nil, errors.New("database connection failed"))
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "Failed to load inventory", response["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockSnapshotService(ctrl)
			handler := handlers.NewSnapshotHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			req := httptest.NewRequest("GET", "/api/v1/snapshot", nil)
			w := httptest.NewRecorder()

			handler.GetSnapshot(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestSnapshotHandler_SaveSnapshot(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockSnapshotService)
		expectedStatus int
	}{
		{
			name: "saves_full_snapshot",
			body: `{"products":[],"locations":[],"state":{"products":[],"locations":[],"unsyncedChanges":false}}`,
			setupMocks: func(m *mocks.MockSnapshotService) {
				m.EXPECT().
					SaveAll(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ interface{}, snap *domain.Snapshot) error {
						assert.NotNil(t, snap.Products)
						assert.NotNil(t, snap.Locations)
						assert.NotNil(t, snap.State)
						return nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			// A body without a products key leaves that record family
			// untouched; the service must see nil, not an empty slice.
			name: "omitted_families_stay_nil",
			body: `{"locations":[{"id":"l-1","name":"Hauptbar"}]}`,
			setupMocks: func(m *mocks.MockSnapshotService) {
				m.EXPECT().
					SaveAll(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ interface{}, snap *domain.Snapshot) error {
						assert.Nil(t, snap.Products)
						assert.Len(t, snap.Locations, 1)
						assert.Nil(t, snap.State)
						return nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "rejects_invalid_json",
			body:           `{not json`,
			setupMocks:     func(m *mocks.MockSnapshotService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "service_error",
			body: `{"products":[]}`,
			setupMocks: func(m *mocks.MockSnapshotService) {
				m.EXPECT().
					SaveAll(gomock.Any(), gomock.Any()).
					Return(errors.New("transaction failed"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockSnapshotService(ctrl)
			handler := handlers.NewSnapshotHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			req := httptest.NewRequest("PUT", "/api/v1/snapshot", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.SaveSnapshot(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var response map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, "Inventory saved successfully", response["message"])
			}
		})
	}
}
