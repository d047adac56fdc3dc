package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	analysis_mocks "github.com/shenikar/disaster_response_system/internal/analysis/mocks"
	auth_mocks "github.com/shenikar/disaster_response_system/internal/auth/mocks"
	"github.com/shenikar/disaster_response_system/internal/config"
	"github.com/shenikar/disaster_response_system/internal/external"
	"github.com/shenikar/disaster_response_system/internal/models"
	"github.com/shenikar/disaster_response_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	adminUser   = &models.User{ID: "admin-01", Name: "Command Officer", Role: models.RoleAdmin, Department: "Central Dispatch"}
	citizenUser = &models.User{ID: "citizen-42ab17f0", Name: "Jane Wanjiku", Role: models.RoleCitizen}
)

// newTestHandler создает новый экземпляр Handler с мокированными зависимостями
func newTestHandler(t *testing.T) (*mocks.MockIncidentService, *auth_mocks.MockAuthService, *analysis_mocks.MockAnalyzer, *gin.Engine) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockIncidentService(ctrl)
	mockAuth := auth_mocks.NewMockAuthService(ctrl)
	mockAnalyzer := analysis_mocks.NewMockAnalyzer(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{}
	handler := NewHandler(mockService, mockAuth, mockAnalyzer, external.NewClient(logger), logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api")
	handler.RegisterRoutes(api)

	return mockService, mockAuth, mockAnalyzer, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// asUser настраивает разбор Bearer-токена под конкретную идентичность сессии
func asUser(mockAuth *auth_mocks.MockAuthService, user *models.User) map[string]string {
	mockAuth.EXPECT().ParseToken(gomock.Any(), "session-token").Return(user, nil).Times(1)
	return map[string]string{"Authorization": "Bearer session-token"}
}

func validCreateRequest() CreateIncidentRequest {
	lat, lon := -1.2921, 36.8219
	ts := int64(1700000000000)
	return CreateIncidentRequest{
		Title:        "Flash Flood in Kibera",
		Description:  "Heavy rains caused river banks to overflow.",
		Type:         "Flood",
		Location:     &LocationDTO{Latitude: &lat, Longitude: &lon},
		Timestamp:    &ts,
		ReporterName: "John Kamau",
	}
}

func TestListIncidents_Success(t *testing.T) {
	mockService, _, _, router := newTestHandler(t)
	expectedIncidents := []*models.Incident{
		{ID: "2", Title: "Newest", Timestamp: 2000, DeployedResources: []string{}},
		{ID: "1", Title: "Oldest", Timestamp: 1000, DeployedResources: []string{"Unit 1"}},
	}

	mockService.EXPECT().ListIncidents(gomock.Any()).Return(expectedIncidents, nil).Times(1)

	w := makeRequest(router, "GET", "/api/incidents", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []IncidentResponse `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "2", resp.Data[0].ID)
	assert.Equal(t, "1", resp.Data[1].ID)
	// Пустой список ресурсов сериализуется как [], не null
	assert.Contains(t, w.Body.String(), `"deployedResources":[]`)
}

func TestListIncidents_ServiceError(t *testing.T) {
	mockService, _, _, router := newTestHandler(t)
	serviceError := errors.New("failed to list incidents")

	mockService.EXPECT().ListIncidents(gomock.Any()).Return(nil, serviceError).Times(1)

	w := makeRequest(router, "GET", "/api/incidents", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestCreateIncident_Success(t *testing.T) {
	mockService, mockAuth, _, router := newTestHandler(t)
	reqBody := validCreateRequest()
	reqBody.ID = "client-17"

	mockService.EXPECT().
		CreateIncident(gomock.Any(), gomock.Any()).
		Do(func(_ any, inc *models.Incident) {
			assert.Equal(t, "client-17", inc.ID)
			assert.Equal(t, models.DisasterFlood, inc.Type)
			assert.Equal(t, reqBody.Title, inc.Title)
			inc.Status = models.StatusPending
			inc.Severity = models.SeverityMedium
			inc.DeployedResources = []string{}
		}).Return(nil).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/incidents", bytes.NewBuffer(bodyBytes), asUser(mockAuth, citizenUser))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Message string           `json:"message"`
		Data    IncidentResponse `json:"data"`
		ID      string           `json:"id"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Message)
	assert.Equal(t, "client-17", resp.ID)
	assert.Equal(t, "client-17", resp.Data.ID)
	assert.Equal(t, "Pending", resp.Data.Status)
}

func TestCreateIncident_Unauthorized(t *testing.T) {
	mockService, _, _, router := newTestHandler(t)

	mockService.EXPECT().CreateIncident(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	bodyBytes, _ := json.Marshal(validCreateRequest())
	w := makeRequest(router, "POST", "/api/incidents", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authorization token required")
}

func TestCreateIncident_AdminForbidden(t *testing.T) {
	mockService, mockAuth, _, router := newTestHandler(t)

	// Гражданские отчеты подает только роль CITIZEN
	mockService.EXPECT().CreateIncident(gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(validCreateRequest())
	w := makeRequest(router, "POST", "/api/incidents", bytes.NewBuffer(bodyBytes), asUser(mockAuth, adminUser))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "permission denied")
}

func TestCreateIncident_InvalidJSON(t *testing.T) {
	mockService, mockAuth, _, router := newTestHandler(t)

	mockService.EXPECT().CreateIncident(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/incidents", bytes.NewBufferString(`{"title": "test"`), asUser(mockAuth, citizenUser))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestCreateIncident_InvalidType(t *testing.T) {
	mockService, mockAuth, _, router := newTestHandler(t)
	reqBody := validCreateRequest()
	reqBody.Type = "Meteorite" // Вне закрытого перечня

	mockService.EXPECT().CreateIncident(gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/incidents", bytes.NewBuffer(bodyBytes), asUser(mockAuth, citizenUser))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Type' failed on the 'oneof' tag")
}

func TestCreateIncident_MissingLocation(t *testing.T) {
	mockService, mockAuth, _, router := newTestHandler(t)
	reqBody := validCreateRequest()
	reqBody.Location = nil

	mockService.EXPECT().CreateIncident(gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/incidents", bytes.NewBuffer(bodyBytes), asUser(mockAuth, citizenUser))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Location' failed on the 'required' tag")
}

func TestCreateIncident_DuplicateID(t *testing.T) {
	mockService, mockAuth, _, router := newTestHandler(t)
	reqBody := validCreateRequest()
	reqBody.ID = "client-17"

	mockService.EXPECT().CreateIncident(gomock.Any(), gomock.Any()).Return(models.ErrDuplicateID).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/incidents", bytes.NewBuffer(bodyBytes), asUser(mockAuth, citizenUser))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestUpdateIncident_Admin_ResolveAndDispatch(t *testing.T) {
	mockService, mockAuth, _, router := newTestHandler(t)
	status := "Resolved"
	resources := []string{"Red Cross Unit 4"}
	reqBody := UpdateIncidentRequest{Status: &status, DeployedResources: &resources}

	mockService.EXPECT().
		UpdateIncident(gomock.Any(), "inc-1", gomock.Any()).
		Do(func(_ any, _ string, upd models.IncidentUpdate) {
			require.NotNil(t, upd.Status)
			assert.Equal(t, models.StatusResolved, *upd.Status)
			require.NotNil(t, upd.DeployedResources)
			assert.Equal(t, resources, *upd.DeployedResources)
		}).Return(int64(1), nil).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "PUT", "/api/incidents/inc-1", bytes.NewBuffer(bodyBytes), asUser(mockAuth, adminUser))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string `json:"message"`
		Changes int64  `json:"changes"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Message)
	assert.Equal(t, int64(1), resp.Changes)
}

func TestUpdateIncident_Citizen_DispatchForbidden(t *testing.T) {
	mockService, mockAuth, _, router := newTestHandler(t)
	resources := []string{"Red Cross Unit 4"}
	reqBody := UpdateIncidentRequest{DeployedResources: &resources}

	// Отказ в разрешении не доходит до сервисного слоя
	mockService.EXPECT().UpdateIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "PUT", "/api/incidents/inc-1", bytes.NewBuffer(bodyBytes), asUser(mockAuth, citizenUser))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "permission denied")
}

func TestUpdateIncident_Citizen_ResolveForbidden(t *testing.T) {
	mockService, mockAuth, _, router := newTestHandler(t)
	status := "Resolved"
	reqBody := UpdateIncidentRequest{Status: &status}

	mockService.EXPECT().UpdateIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "PUT", "/api/incidents/inc-1", bytes.NewBuffer(bodyBytes), asUser(mockAuth, citizenUser))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "permission denied")
}

func TestUpdateIncident_Citizen_StatusChangeAllowed(t *testing.T) {
	mockService, mockAuth, _, router := newTestHandler(t)
	status := "Investigating"
	reqBody := UpdateIncidentRequest{Status: &status}

	mockService.EXPECT().UpdateIncident(gomock.Any(), "inc-1", gomock.Any()).Return(int64(1), nil).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "PUT", "/api/incidents/inc-1", bytes.NewBuffer(bodyBytes), asUser(mockAuth, citizenUser))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateIncident_UnknownID(t *testing.T) {
	mockService, mockAuth, _, router := newTestHandler(t)
	status := "Investigating"
	reqBody := UpdateIncidentRequest{Status: &status}

	mockService.EXPECT().UpdateIncident(gomock.Any(), "ghost", gomock.Any()).Return(int64(0), nil).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "PUT", "/api/incidents/ghost", bytes.NewBuffer(bodyBytes), asUser(mockAuth, adminUser))

	// Неизвестный id - это changes=0, не ошибка
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"changes":0`)
}

func TestUpdateIncident_InvalidStatus(t *testing.T) {
	mockService, mockAuth, _, router := newTestHandler(t)
	status := "Closed" // Вне закрытого перечня
	reqBody := UpdateIncidentRequest{Status: &status}

	mockService.EXPECT().UpdateIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "PUT", "/api/incidents/inc-1", bytes.NewBuffer(bodyBytes), asUser(mockAuth, adminUser))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Status' failed on the 'oneof' tag")
}

func TestGetStats_Admin_Success(t *testing.T) {
	mockService, mockAuth, _, router := newTestHandler(t)
	expectedStats := &models.IncidentStats{
		Total:      3,
		ByStatus:   map[models.IncidentStatus]int{models.StatusPending: 2, models.StatusResolved: 1},
		BySeverity: map[models.SeverityLevel]int{models.SeverityHigh: 3},
	}

	mockService.EXPECT().GetStats(gomock.Any()).Return(expectedStats, nil).Times(1)

	w := makeRequest(router, "GET", "/api/incidents/stats", nil, asUser(mockAuth, adminUser))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":3`)
}

func TestGetStats_Citizen_Forbidden(t *testing.T) {
	mockService, mockAuth, _, router := newTestHandler(t)

	mockService.EXPECT().GetStats(gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/incidents/stats", nil, asUser(mockAuth, citizenUser))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "permission denied")
}

func TestLogin_Success(t *testing.T) {
	_, mockAuth, _, router := newTestHandler(t)
	reqBody := LoginRequest{Role: "CITIZEN", Name: "Jane Wanjiku"}

	mockAuth.EXPECT().
		Login(gomock.Any(), models.RoleCitizen, "Jane Wanjiku", "").
		Return(citizenUser, "session-token", nil).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/auth/login", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "session-token", resp.Token)
	assert.Equal(t, *citizenUser, resp.User)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	_, mockAuth, _, router := newTestHandler(t)
	reqBody := LoginRequest{Role: "ADMIN", Password: "guess"}

	mockAuth.EXPECT().
		Login(gomock.Any(), models.RoleAdmin, "", "guess").
		Return(nil, "", models.ErrInvalidCredentials).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/auth/login", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid credentials")
}

func TestLogin_UnknownRole(t *testing.T) {
	_, mockAuth, _, router := newTestHandler(t)
	reqBody := LoginRequest{Role: "ROOT"}

	mockAuth.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/auth/login", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Role' failed on the 'oneof' tag")
}

func TestLogout_Success(t *testing.T) {
	_, mockAuth, _, router := newTestHandler(t)

	mockAuth.EXPECT().Logout(gomock.Any(), "session-token").Return(nil).Times(1)

	w := makeRequest(router, "POST", "/api/auth/logout", nil, asUser(mockAuth, citizenUser))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "logged out")
}

func TestLogout_MissingToken(t *testing.T) {
	_, mockAuth, _, router := newTestHandler(t)

	mockAuth.EXPECT().Logout(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/auth/logout", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAnalyzeReport_Success(t *testing.T) {
	_, mockAuth, mockAnalyzer, router := newTestHandler(t)
	reqBody := AnalyzeReportRequest{Description: "River burst its banks"}
	expectedResult := &models.AnalysisResult{
		Severity: models.SeverityHigh,
		Category: models.DisasterFlood,
		Summary:  "River overflow affecting homes.",
		Advice:   "Move to higher ground immediately.",
	}

	mockAnalyzer.EXPECT().
		AnalyzeReport(gomock.Any(), reqBody.Description, "").
		Return(expectedResult).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/analysis/report", bytes.NewBuffer(bodyBytes), asUser(mockAuth, citizenUser))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"severity":"High"`)
	assert.Contains(t, w.Body.String(), `"category":"Flood"`)
}

func TestAnalyzeReport_ValidationError(t *testing.T) {
	_, mockAuth, mockAnalyzer, router := newTestHandler(t)
	reqBody := AnalyzeReportRequest{} // Отсутствует Description

	mockAnalyzer.EXPECT().AnalyzeReport(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/analysis/report", bytes.NewBuffer(bodyBytes), asUser(mockAuth, citizenUser))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Description' failed on the 'required' tag")
}

func TestFindResources_Success(t *testing.T) {
	_, mockAuth, mockAnalyzer, router := newTestHandler(t)
	lat, lon := -1.28, 36.82
	reqBody := ResourceLookupRequest{Latitude: &lat, Longitude: &lon, FacilityType: "hospitals"}
	expectedResult := &models.ResourceLookup{
		Text:   "Two hospitals found nearby.",
		Places: []models.ResourcePlace{{Title: "Kenyatta National Hospital", URI: "https://knh.or.ke"}},
	}

	mockAnalyzer.EXPECT().
		FindNearbyResources(gomock.Any(), lat, lon, "hospitals").
		Return(expectedResult).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/analysis/resources", bytes.NewBuffer(bodyBytes), asUser(mockAuth, citizenUser))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Kenyatta National Hospital")
}

func TestGetWeather_InvalidCoords(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/external/weather?latitude=abc&longitude=36.8", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid coordinates")
}

func TestGetNews_Success(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/external/news", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.NewsArticle `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Len(t, resp.Data, 4)
}

func TestHealthCheck_Success(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
