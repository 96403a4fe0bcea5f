package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"nutritrack/internal/api"
	"nutritrack/internal/reports"
)

const (
	defaultAPIBase = "http://localhost:8000/api"
)

var (
	apiBase       string
	email         string
	password      string
	token         string
	client        = &http.Client{Timeout: 30 * time.Second}
	createdMealID int64
	foodID        int64
	todayMeals    []api.Meal
)

func main() {
	fmt.Println("=== NutriTrack E2E Smoke Test ===")
	fmt.Println()

	// Load config from env
	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	email = getEnv("SMOKE_EMAIL", "")
	password = getEnv("SMOKE_PASSWORD", "")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Email: %s\n", maskString(email))
	fmt.Println()

	if email == "" || password == "" {
		fmt.Println("SMOKE_EMAIL and SMOKE_PASSWORD must be set")
		os.Exit(1)
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Login", testLogin},
		{"Get Profile", testGetProfile},
		{"List Foods", testListFoods},
		{"Create Meal", testCreateMeal},
		{"List Meals (today)", testListMeals},
		{"Export Report (CSV)", testExportReport},
		{"Delete Meal", testDeleteMeal},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testLogin() error {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		Token struct {
			Access string `json:"access"`
		} `json:"token"`
	}
	if err := doJSON("POST", "/auth/login/", body, &resp); err != nil {
		return err
	}
	if resp.Token.Access == "" {
		return fmt.Errorf("empty access token")
	}
	token = resp.Token.Access
	return nil
}

func testGetProfile() error {
	var profile map[string]any
	return doJSON("GET", "/auth/profile/", nil, &profile)
}

func testListFoods() error {
	var raw json.RawMessage
	if err := doJSON("GET", "/alimentos/", nil, &raw); err != nil {
		return err
	}

	var foods []struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(raw, &foods); err != nil {
		var page struct {
			Results []struct {
				ID int64 `json:"id"`
			} `json:"results"`
		}
		if err := json.Unmarshal(raw, &page); err != nil {
			return fmt.Errorf("unexpected foods payload: %w", err)
		}
		foods = page.Results
	}
	if len(foods) == 0 {
		return fmt.Errorf("empty food catalog")
	}
	foodID = foods[0].ID
	return nil
}

func testCreateMeal() error {
	body := map[string]any{
		"nome":      "Smoke meal",
		"descricao": "created by the smoke test",
		"itens": []map[string]any{
			{"alimento_id": foodID, "quantidade_g": 100},
		},
	}
	var meal struct {
		ID int64 `json:"id"`
	}
	if err := doJSON("POST", "/refeicoes/", body, &meal); err != nil {
		return err
	}
	if meal.ID == 0 {
		return fmt.Errorf("meal created without id")
	}
	createdMealID = meal.ID
	return nil
}

func testListMeals() error {
	today := time.Now().Format("2006-01-02")
	if err := doJSON("GET", "/refeicoes/?data="+today, nil, &todayMeals); err != nil {
		return err
	}
	for _, m := range todayMeals {
		if m.ID == createdMealID {
			return nil
		}
	}
	return fmt.Errorf("created meal %d not in today's list", createdMealID)
}

func testExportReport() error {
	today := time.Now().Format("2006-01-02")
	data, err := reports.NewGenerator().Generate(reports.DayReport{
		Date:  today,
		Meals: todayMeals,
	}, reports.FormatCSV)
	if err != nil {
		return err
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("nutritrack-smoke-%s.csv", today))
	return os.WriteFile(path, data, 0o644)
}

func testDeleteMeal() error {
	if createdMealID == 0 {
		return fmt.Errorf("no meal to delete")
	}
	return doJSON("DELETE", fmt.Sprintf("/refeicoes/%d/", createdMealID), nil, nil)
}

func doJSON(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiBase+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return err
		}
	}
	return nil
}

func addAuth(req *http.Request) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
