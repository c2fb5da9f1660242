package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"
)

// ApiClient handles requests to the cold storage engine API
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
	UseMock    bool
}

// NewApiClient creates a new API client
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("COLDSTORE_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	client := &ApiClient{
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: baseURL,
		UseMock: false, // Default to trying the real server first
	}

	// Verify connectivity - if server is not available, use mock data
	if ok, _ := client.CheckHealth(); !ok {
		fmt.Printf("Warning: API server at %s is not available. Using mock data.\n", baseURL)
		client.UseMock = true
	}

	return client
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}

	return true, nil
}

// Alert is an active alert on the dashboard
type Alert struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Item is the decision record of one stored item
type Item struct {
	Name          string  `json:"item"`
	Zone          string  `json:"zone"`
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	ShelfLifeDays int     `json:"shelf_life_days"`
	Optimization  struct {
		Priority   string  `json:"priority"`
		Action     string  `json:"action"`
		Confidence float64 `json:"confidence"`
	} `json:"temperature_optimization"`
	Spoilage struct {
		Risk       string  `json:"risk"`
		Confidence float64 `json:"confidence"`
	} `json:"spoilage_risk"`
}

// Zone is one storage compartment summary
type Zone struct {
	RiskLevel   string  `json:"risk_level"`
	ItemsStored int     `json:"items_stored"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	CoolingDuty int     `json:"cooling_duty"`
	Items       []Item  `json:"items"`
}

// Report is a dashboard produced by one analysis cycle
type Report struct {
	ID          string          `json:"id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Source      string          `json:"source"`
	Zones       map[string]Zone `json:"storage_compartments"`
	Alerts      []Alert         `json:"active_alerts"`
}

// ZoneNames returns the zone keys in display order
func (r *Report) ZoneNames() []string {
	names := make([]string, 0, len(r.Zones))
	for name := range r.Zones {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profile is a registered item storage profile
type Profile struct {
	Label            string  `json:"label"`
	IdealTemperature float64 `json:"ideal_temperature"`
	IdealHumidity    float64 `json:"ideal_humidity"`
	ShelfLifeDays    int     `json:"shelf_life_days"`
	Zone             string  `json:"zone"`
}

// Catalog is the profile listing returned by the API
type Catalog struct {
	DefaultLabel  string             `json:"default_label"`
	Profiles      []Profile          `json:"profiles"`
	GasThresholds map[string]float64 `json:"gas_thresholds"`
}

// Reading is a sensor reading submitted from the terminal
type Reading struct {
	Label       string   `json:"label"`
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
}

// GetDashboard runs a simulated cycle on the server
func (c *ApiClient) GetDashboard() (*Report, error) {
	if c.UseMock {
		return getMockReport(), nil
	}

	resp, err := c.httpClient.Get(c.BaseURL + "/api/v1/analyze")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get dashboard with status code: %d", resp.StatusCode)
	}

	var report Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetProfiles retrieves the profile catalog
func (c *ApiClient) GetProfiles() (*Catalog, error) {
	if c.UseMock {
		return getMockCatalog(), nil
	}

	resp, err := c.httpClient.Get(c.BaseURL + "/api/v1/profiles")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get profiles with status code: %d", resp.StatusCode)
	}

	var catalog Catalog
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// SubmitReading posts a single reading and returns the resulting report
func (c *ApiClient) SubmitReading(reading Reading) (*Report, error) {
	if c.UseMock {
		return nil, fmt.Errorf("API server is not available")
	}

	data, err := json.Marshal(reading)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", c.BaseURL+"/api/v1/analyze", bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to analyze reading: %s", string(body))
	}

	var report Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Mock data generators

func getMockReport() *Report {
	return &Report{
		ID:          "offline",
		GeneratedAt: time.Now().UTC(),
		Source:      "simulated",
		Zones: map[string]Zone{
			"Zone A": {RiskLevel: "medium", ItemsStored: 1, Temperature: 14.2, Humidity: 86.1, CoolingDuty: 70},
			"Zone B": {RiskLevel: "low", ItemsStored: 1, Temperature: 10.4, Humidity: 79.3, CoolingDuty: 50},
			"Zone C": {RiskLevel: "low", ItemsStored: 1, Temperature: 3.1, Humidity: 66.0, CoolingDuty: 50},
			"Zone D": {RiskLevel: "high", ItemsStored: 1, Temperature: 8.7, Humidity: 91.5, CoolingDuty: 90},
		},
		Alerts: []Alert{
			{Type: "Warning Alert", Message: "Banana may spoil soon."},
			{Type: "Critical Alert", Message: "Potato spoilage risk detected!"},
			{Type: "Warning Alert", Message: "Potato zone temperature exceeds safe range!"},
		},
	}
}

func getMockCatalog() *Catalog {
	return &Catalog{
		DefaultLabel: "banana",
		Profiles: []Profile{
			{Label: "banana", IdealTemperature: 13, IdealHumidity: 85, ShelfLifeDays: 5, Zone: "A"},
			{Label: "tomato", IdealTemperature: 10, IdealHumidity: 80, ShelfLifeDays: 7, Zone: "B"},
			{Label: "onion", IdealTemperature: 4, IdealHumidity: 65, ShelfLifeDays: 30, Zone: "C"},
			{Label: "potato", IdealTemperature: 6, IdealHumidity: 90, ShelfLifeDays: 25, Zone: "D"},
		},
		GasThresholds: map[string]float64{"ethylene": 0.4, "ammonia": 0.05, "h2s": 0.06, "co2": 0.2},
	}
}
