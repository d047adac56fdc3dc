package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shenikar/disaster_response_system/internal/models"
	"github.com/sirupsen/logrus"
)

const weatherBaseURL = "https://api.open-meteo.com"

// Client - клиент внешних источников данных (погода, новости)
type Client struct {
	httpClient *http.Client
	logger     *logrus.Logger
	baseURL    string
}

func NewClient(logger *logrus.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:  logger,
		baseURL: weatherBaseURL,
	}
}

type openMeteoResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
		WindSpeed   float64 `json:"windspeed"`
		IsDay       int     `json:"is_day"`
	} `json:"current_weather"`
}

// FetchWeather запрашивает текущую погоду у Open-Meteo.
// Ошибка транспорта пробрасывается вызывающему: у виджета погоды
// нет осмысленного fallback-значения.
func (c *Client) FetchWeather(ctx context.Context, lat, lon float64, locationName string) (*models.WeatherData, error) {
	log := c.logger.WithFields(logrus.Fields{
		"adapter": "external",
		"method":  "FetchWeather",
	})

	url := fmt.Sprintf("%s/v1/forecast?latitude=%f&longitude=%f&current_weather=true&timezone=auto", c.baseURL, lat, lon)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("Weather fetch failed")
		return nil, fmt.Errorf("failed to fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("weather service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read weather response: %w", err)
	}

	var meteo openMeteoResponse
	if err := json.Unmarshal(body, &meteo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weather response: %w", err)
	}

	return &models.WeatherData{
		Temperature:   meteo.CurrentWeather.Temperature,
		ConditionCode: meteo.CurrentWeather.WeatherCode,
		WindSpeed:     meteo.CurrentWeather.WindSpeed,
		IsDay:         meteo.CurrentWeather.IsDay == 1,
		LocationName:  locationName,
	}, nil
}
