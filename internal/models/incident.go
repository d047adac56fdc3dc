package models

// DisasterType - закрытый перечень типов бедствий
type DisasterType string

const (
	DisasterFlood      DisasterType = "Flood"
	DisasterFire       DisasterType = "Fire"
	DisasterAccident   DisasterType = "Road Accident"
	DisasterEarthquake DisasterType = "Earthquake"
	DisasterDrought    DisasterType = "Drought"
	DisasterLandslide  DisasterType = "Landslide"
	DisasterOther      DisasterType = "Other"
)

// IncidentStatus - статус обработки инцидента
type IncidentStatus string

const (
	StatusPending       IncidentStatus = "Pending"
	StatusInvestigating IncidentStatus = "Investigating"
	StatusResolved      IncidentStatus = "Resolved"
)

// SeverityLevel - уровень серьезности инцидента
type SeverityLevel string

const (
	SeverityLow      SeverityLevel = "Low"
	SeverityMedium   SeverityLevel = "Medium"
	SeverityHigh     SeverityLevel = "High"
	SeverityCritical SeverityLevel = "Critical"
)

// Coordinates - пара координат места инцидента
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Incident - центральная доменная сущность.
// Location и Timestamp неизменяемы после создания,
// мутабельны только Status и DeployedResources.
type Incident struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Type              DisasterType   `json:"type"`
	Status            IncidentStatus `json:"status"`
	Severity          SeverityLevel  `json:"severity"`
	Location          Coordinates    `json:"location"`
	Timestamp         int64          `json:"timestamp"` // миллисекунды эпохи
	ReporterName      string         `json:"reporterName"`
	AIAnalysis        string         `json:"aiAnalysis,omitempty"`
	ImageURL          string         `json:"imageUrl,omitempty"`
	DeployedResources []string       `json:"deployedResources"`
}

// IncidentUpdate - частичное обновление: только два мутабельных поля.
// nil означает "поле не трогать".
type IncidentUpdate struct {
	Status            *IncidentStatus
	DeployedResources *[]string
}

// IncidentStats - агрегаты для дашборда
type IncidentStats struct {
	Total      int                    `json:"total"`
	ByStatus   map[IncidentStatus]int `json:"byStatus"`
	BySeverity map[SeverityLevel]int  `json:"bySeverity"`
}

// AnalysisResult - структурированная классификация отчета от внешнего ИИ
type AnalysisResult struct {
	Severity SeverityLevel `json:"severity"`
	Category DisasterType  `json:"category"`
	Summary  string        `json:"summary"`
	Advice   string        `json:"advice"`
}

// ResourcePlace - место (больница, убежище и т.п.), найденное поиском ресурсов
type ResourcePlace struct {
	Title string `json:"title"`
	URI   string `json:"uri,omitempty"`
}

// ResourceLookup - результат поиска ближайших ресурсов
type ResourceLookup struct {
	Text   string          `json:"text"`
	Places []ResourcePlace `json:"places"`
}

// WeatherData - текущая погода для виджета дашборда
type WeatherData struct {
	Temperature   float64 `json:"temperature"`
	ConditionCode int     `json:"conditionCode"`
	WindSpeed     float64 `json:"windSpeed"`
	IsDay         bool    `json:"isDay"`
	LocationName  string  `json:"locationName"`
}

// NewsArticle - элемент новостной ленты о бедствиях
type NewsArticle struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Source   string `json:"source"`
	TimeAgo  string `json:"timeAgo"`
	Category string `json:"category"`
	ImageURL string `json:"imageUrl,omitempty"`
	URL      string `json:"url"`
}
