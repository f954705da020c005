package tools

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/taipm/go-llm-client/llm"
)

const (
	geocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	forecastURL  = "https://api.open-meteo.com/v1/forecast"
)

// Weather returns a tool reporting current weather for a named place,
// backed by the keyless Open-Meteo API (geocode, then forecast).
//
// Example:
//
//	client.WithTool(tools.Weather())
func Weather() *llm.Tool {
	return llm.NewTool("get_weather", "Get the current weather for a named place").
		AddParameter("location", "string", "City or place name, e.g. Hanoi", true).
		WithHandler(weatherHandler)
}

func weatherHandler(args string) (string, error) {
	var params struct {
		Location string `json:"location"`
	}
	if err := json.Unmarshal([]byte(args), &params); err != nil {
		return fmt.Sprintf("Error: invalid arguments: %v", err), nil
	}
	if params.Location == "" {
		return "Error: location is required", nil
	}

	lat, lon, name, err := geocode(params.Location)
	if err != nil {
		return "", err
	}
	if name == "" {
		return fmt.Sprintf("Error: no location found for %q", params.Location), nil
	}

	temp, wind, err := currentWeather(lat, lon)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s: %.1f°C, wind %.1f km/h", name, temp, wind), nil
}

func geocode(place string) (lat, lon float64, name string, err error) {
	resp, err := httpClient.Get(geocodingURL + "?count=1&name=" + url.QueryEscape(place))
	if err != nil {
		return 0, 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, "", err
	}
	var result struct {
		Results []struct {
			Name      string  `json:"name"`
			Country   string  `json:"country"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, 0, "", fmt.Errorf("geocoding response: %w", err)
	}
	if len(result.Results) == 0 {
		return 0, 0, "", nil
	}

	top := result.Results[0]
	label := top.Name
	if top.Country != "" {
		label += ", " + top.Country
	}
	return top.Latitude, top.Longitude, label, nil
}

func currentWeather(lat, lon float64) (temp, wind float64, err error) {
	endpoint := fmt.Sprintf("%s?latitude=%f&longitude=%f&current_weather=true", forecastURL, lat, lon)
	resp, err := httpClient.Get(endpoint)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, err
	}
	var result struct {
		CurrentWeather struct {
			Temperature float64 `json:"temperature"`
			Windspeed   float64 `json:"windspeed"`
		} `json:"current_weather"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, 0, fmt.Errorf("forecast response: %w", err)
	}
	return result.CurrentWeather.Temperature, result.CurrentWeather.Windspeed, nil
}
