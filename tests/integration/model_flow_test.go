package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestModelLifecycleFlow(t *testing.T) {
	app := setupApp(t)

	// Register
	rec := app.request("POST", "/api/v1/models",
		`{"name": "市场比较模型", "algorithm": "market_comparison", "description": "默认模型"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	model := parseJSON(t, rec)["model"].(map[string]interface{})
	modelID := model["id"].(string)
	if model["is_active"].(bool) {
		t.Error("new model must start inactive")
	}

	// Activate
	rec = app.request("POST", "/api/v1/models/"+modelID+"/activate", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("activate failed: %d %s", rec.Code, rec.Body.String())
	}

	// Deleting the active model conflicts
	rec = app.request("DELETE", "/api/v1/models/"+modelID, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 deleting active model, got %d %s", rec.Code, rec.Body.String())
	}

	// Calculate with the model
	body := fmt.Sprintf(`{"property": %s}`, propertyJSON)
	rec = app.request("POST", "/api/v1/models/"+modelID+"/calculate", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("calculate failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)["result"].(map[string]interface{})
	if result["valuation_method"].(string) != "market_comparison" {
		t.Errorf("expected market_comparison, got %v", result["valuation_method"])
	}

	// Update the algorithm
	rec = app.request("PUT", "/api/v1/models/"+modelID, `{"algorithm": "cost_replacement"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update failed: %d %s", rec.Code, rec.Body.String())
	}
	updated := parseJSON(t, rec)["model"].(map[string]interface{})
	if updated["algorithm"].(string) != "cost_replacement" {
		t.Errorf("expected cost_replacement, got %v", updated["algorithm"])
	}

	// Export, then import as a fresh inactive copy
	rec = app.request("GET", "/api/v1/models/"+modelID+"/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export failed: %d %s", rec.Code, rec.Body.String())
	}
	data := parseJSON(t, rec)["data"].(string)

	rec = app.request("POST", "/api/v1/models/import", fmt.Sprintf(`{"data": %q}`, data))
	if rec.Code != http.StatusCreated {
		t.Fatalf("import failed: %d %s", rec.Code, rec.Body.String())
	}
	imported := parseJSON(t, rec)["model"].(map[string]interface{})
	if imported["id"].(string) == modelID {
		t.Error("imported model must get a fresh id")
	}
	if imported["is_active"].(bool) {
		t.Error("imported model must start inactive")
	}

	// Compare the two models
	body = fmt.Sprintf(`{"model_ids": [%q, %q], "property": %s}`,
		modelID, imported["id"].(string), propertyJSON)
	rec = app.request("POST", "/api/v1/models/compare", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("compare failed: %d %s", rec.Code, rec.Body.String())
	}
	cmp := parseJSON(t, rec)
	entries := cmp["entries"].([]interface{})
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	// Delete the imported copy
	rec = app.request("DELETE", "/api/v1/models/"+imported["id"].(string), "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete failed: %d %s", rec.Code, rec.Body.String())
	}
}

func TestModelValidationFlow(t *testing.T) {
	app := setupApp(t)

	t.Run("unknown_algorithm_rejected", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/models", `{"name": "bad", "algorithm": "deep_learning"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("unknown_model_404", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/models/00000000-0000-0000-0000-000000000000", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d %s", rec.Code, rec.Body.String())
		}
		errObj := parseJSON(t, rec)["error"].(map[string]interface{})
		if errObj["code"].(string) != "MODEL_NOT_FOUND" {
			t.Errorf("expected MODEL_NOT_FOUND, got %v", errObj["code"])
		}
	})

	t.Run("compare_with_no_valid_models", func(t *testing.T) {
		body := fmt.Sprintf(`{"model_ids": ["a", "b"], "property": %s}`, propertyJSON)
		rec := app.request("POST", "/api/v1/models/compare", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d %s", rec.Code, rec.Body.String())
		}
		errObj := parseJSON(t, rec)["error"].(map[string]interface{})
		if errObj["code"].(string) != "NO_VALID_MODELS" {
			t.Errorf("expected NO_VALID_MODELS, got %v", errObj["code"])
		}
	})
}
