package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cafe-finder/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMapService is a mock implementation of the MapService interface
type MockMapService struct {
	mock.Mock
}

func (m *MockMapService) FeatureCollection(ctx context.Context, within *models.Bounds) (*geojson.FeatureCollection, error) {
	args := m.Called(ctx, within)
	return args.Get(0).(*geojson.FeatureCollection), args.Error(1)
}

func featureCollection(pins ...models.CafePin) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range pins {
		f := geojson.NewFeature(orb.Point{p.Longitude, p.Latitude})
		f.Properties["id"] = p.ID
		f.Properties["name"] = p.Name
		fc.Append(f)
	}
	return fc
}

func serveGeoJSON(h *MapHandler, rawQuery string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/cafes.geojson", nil)
	req.URL.RawQuery = rawQuery
	w := httptest.NewRecorder()

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	h.GeoJSON(c)
	return w
}

func TestMapHandler_GeoJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	words := models.CafePin{ID: "abc", Name: "Words Coffee", Latitude: 43.465, Longitude: -80.522}

	tests := []struct {
		name           string
		query          string
		within         *models.Bounds
		fc             *geojson.FeatureCollection
		serviceErr     error
		callsService   bool
		expectedStatus int
		expectedCount  int
	}{
		{
			name:           "all cafes",
			fc:             featureCollection(words),
			callsService:   true,
			expectedStatus: http.StatusOK,
			expectedCount:  1,
		},
		{
			name:           "bounded",
			query:          "north=43.5&south=43.4&east=-80.4&west=-80.6",
			within:         &models.Bounds{North: 43.5, South: 43.4, East: -80.4, West: -80.6},
			fc:             featureCollection(words),
			callsService:   true,
			expectedStatus: http.StatusOK,
			expectedCount:  1,
		},
		{
			name:           "store failure renders empty map",
			fc:             geojson.NewFeatureCollection(),
			serviceErr:     assert.AnError,
			callsService:   true,
			expectedStatus: http.StatusOK,
			expectedCount:  0,
		},
		{
			name:           "partial bounds",
			query:          "north=43.5&south=43.4",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed bound",
			query:          "north=abc&south=43.4&east=-80.4&west=-80.6",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "inverted bounds",
			query:          "north=43.4&south=43.5&east=-80.4&west=-80.6",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockMapService)
			h := NewMapHandler(mockSvc, "pk.test")

			if tt.callsService {
				mockSvc.On("FeatureCollection", mock.Anything, tt.within).Return(tt.fc, tt.serviceErr)
			}

			w := serveGeoJSON(h, tt.query)
			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "application/geo+json", w.Header().Get("Content-Type"))

				var body struct {
					Type     string `json:"type"`
					Features []struct {
						Geometry struct {
							Type        string    `json:"type"`
							Coordinates []float64 `json:"coordinates"`
						} `json:"geometry"`
						Properties map[string]interface{} `json:"properties"`
					} `json:"features"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, "FeatureCollection", body.Type)
				require.Len(t, body.Features, tt.expectedCount)

				if tt.expectedCount > 0 {
					f := body.Features[0]
					assert.Equal(t, "Point", f.Geometry.Type)
					assert.Equal(t, []float64{-80.522, 43.465}, f.Geometry.Coordinates)
					assert.Equal(t, "abc", f.Properties["id"])
					assert.Equal(t, "Words Coffee", f.Properties["name"])
				}
			}

			if tt.callsService {
				mockSvc.AssertExpectations(t)
			} else {
				mockSvc.AssertNotCalled(t, "FeatureCollection", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestMapHandler_GeoJSON_Caches(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockSvc := new(MockMapService)
	h := NewMapHandler(mockSvc, "pk.test")
	mockSvc.On("FeatureCollection", mock.Anything, (*models.Bounds)(nil)).
		Return(featureCollection(models.CafePin{ID: "abc", Name: "Words Coffee"}), nil).Once()

	first := serveGeoJSON(h, "")
	second := serveGeoJSON(h, "")

	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	mockSvc.AssertNumberOfCalls(t, "FeatureCollection", 1)
}

func TestMapHandler_GeoJSON_CacheKeyIgnoresUnrelatedParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockSvc := new(MockMapService)
	h := NewMapHandler(mockSvc, "pk.test")
	within := &models.Bounds{North: 43.5, South: 43.4, East: -80.4, West: -80.6}
	mockSvc.On("FeatureCollection", mock.Anything, (*models.Bounds)(nil)).
		Return(featureCollection(models.CafePin{ID: "abc", Name: "Words Coffee"}), nil).Once()
	mockSvc.On("FeatureCollection", mock.Anything, within).
		Return(featureCollection(), nil).Once()

	for _, q := range []string{"", "x=1", "x=2&utm=map"} {
		w := serveGeoJSON(h, q)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Words Coffee")
	}

	for _, q := range []string{
		"north=43.5&south=43.4&east=-80.4&west=-80.6",
		"west=-80.6&east=-80.4&south=43.4&north=43.5&x=1",
	} {
		w := serveGeoJSON(h, q)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "Words Coffee")
	}

	mockSvc.AssertNumberOfCalls(t, "FeatureCollection", 2)
}

func TestMapHandler_GeoJSON_ErrorsAreNotCached(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockSvc := new(MockMapService)
	h := NewMapHandler(mockSvc, "pk.test")
	mockSvc.On("FeatureCollection", mock.Anything, (*models.Bounds)(nil)).
		Return(geojson.NewFeatureCollection(), assert.AnError).Once()
	mockSvc.On("FeatureCollection", mock.Anything, (*models.Bounds)(nil)).
		Return(featureCollection(models.CafePin{ID: "abc", Name: "Words Coffee"}), nil).Once()

	serveGeoJSON(h, "")
	w := serveGeoJSON(h, "")

	assert.Contains(t, w.Body.String(), "Words Coffee")
	mockSvc.AssertNumberOfCalls(t, "FeatureCollection", 2)
}

func TestMapHandler_Index(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.SetHTMLTemplate(Templates())
	h := NewMapHandler(new(MockMapService), "pk.public-token")
	r.GET("/", h.Index)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `"pk.public-token"`))
	assert.Contains(t, body, "mapbox://styles/mapbox/streets-v12")
	assert.Contains(t, body, "-80.5448")
	assert.Contains(t, body, "43.4723")
	assert.Contains(t, body, "cafes.geojson")
}
