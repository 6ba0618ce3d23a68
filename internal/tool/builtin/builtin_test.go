// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package builtin

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"product-advisor/internal/catalog"
	"product-advisor/internal/tool"
)

func fixtureSearcher() *catalog.MemorySearcher {
	m := catalog.NewMemorySearcher()
	m.AddProducts(
		&catalog.Product{ID: "lap-001", Name: "Dell XPS 13", Brand: "dell", Category: "laptop",
			Price: 32000000, Rating: 4.6,
			Specifications: map[string]string{"CPU": "Intel i7", "RAM": "16GB", "Storage": "512GB SSD", "Display": "13.4 inch", "OS": "Windows 11"},
			Features:       []string{"performance", "portability"}},
		&catalog.Product{ID: "lap-002", Name: "Dell Inspiron 15", Brand: "dell", Category: "laptop",
			Price: 18000000, Rating: 4.1,
			Specifications: map[string]string{"CPU": "Intel i5", "RAM": "8GB", "Storage": "256GB SSD", "Display": "15.6 inch", "OS": "Windows 11"}},
		&catalog.Product{ID: "lap-003", Name: "MacBook Air M2", Brand: "apple", Category: "laptop",
			Price: 28000000, Rating: 4.8,
			Specifications: map[string]string{"CPU": "Apple M2", "RAM": "8GB", "Storage": "256GB SSD", "Display": "13.6 inch", "OS": "macOS"},
			Features:       []string{"battery life", "portability"}},
		&catalog.Product{ID: "ph-001", Name: "iPhone 15 Pro", Brand: "apple", Category: "smartphone",
			Price: 29000000, Rating: 4.7,
			Specifications: map[string]string{"Display": "6.1 inch OLED", "Chipset": "A17 Pro", "Camera": "48MP", "Battery": "3274mAh", "OS": "iOS 17"},
			Features:       []string{"camera"}},
	)
	m.AddReviews(
		&catalog.Review{ID: "r1", ProductID: "lap-001", Rating: 5, Content: "Tuyệt vời", Pros: []string{"màn hình đẹp"}, Cons: []string{"giá cao"}, HelpfulCount: 12, CreatedAt: "2026-05-01T00:00:00Z"},
		&catalog.Review{ID: "r2", ProductID: "lap-001", Rating: 4, Content: "Ổn", Pros: []string{"màn hình đẹp"}, HelpfulCount: 3, CreatedAt: "2026-06-01T00:00:00Z"},
		&catalog.Review{ID: "r3", ProductID: "lap-001", Rating: 2, Content: "Hơi nóng", Cons: []string{"nóng máy"}, HelpfulCount: 8, CreatedAt: "2026-03-01T00:00:00Z"},
		&catalog.Review{ID: "r4", ProductID: "lap-001", Rating: 5, Content: "Rất hài lòng", Pros: []string{"pin tốt"}, HelpfulCount: 1, CreatedAt: "2026-07-01T00:00:00Z"},
	)
	return m
}

func TestSearchTool_Execute(t *testing.T) {
	st := NewSearchTool(fixtureSearcher())
	result, err := st.Execute(context.Background(), map[string]any{
		"query":     "laptop dell",
		"category":  "laptop",
		"brand":     "dell",
		"price_max": float64(25000000),
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var payload searchPayload
	if err := json.Unmarshal([]byte(result.Content), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Total != 1 || payload.Products[0].ID != "lap-002" {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestSearchTool_QuantityClamp(t *testing.T) {
	st := NewSearchTool(fixtureSearcher())
	result, err := st.Execute(context.Background(), map[string]any{
		"query":    "laptop",
		"category": "laptop",
		"quantity": 99,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var payload searchPayload
	json.Unmarshal([]byte(result.Content), &payload)
	if payload.Total > 10 {
		t.Errorf("quantity should be clamped to 10, got %d", payload.Total)
	}
}

func TestCompareTool_Execute(t *testing.T) {
	ct := NewCompareTool(fixtureSearcher())
	result, err := ct.Execute(context.Background(), map[string]any{
		"product_names": []any{"Dell XPS 13", "MacBook Air M2"},
		"category":      "laptop",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var payload comparePayload
	if err := json.Unmarshal([]byte(result.Content), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(payload.Products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(payload.Products))
	}
	// 关键规格投影只包含该品类定义的字段
	for _, p := range payload.Products {
		for key := range p.KeySpecs {
			switch key {
			case "CPU", "RAM", "Storage", "Display", "Graphics", "OS":
			default:
				t.Errorf("unexpected key spec %q", key)
			}
		}
	}
}

func TestCompareTool_RequiresTwoNames(t *testing.T) {
	ct := NewCompareTool(fixtureSearcher())
	_, err := ct.Execute(context.Background(), map[string]any{
		"product_names": []any{"Dell XPS 13"},
	})
	if err == nil {
		t.Fatal("expected error for single product")
	}
}

func TestCompareTool_LimitsToThree(t *testing.T) {
	ct := NewCompareTool(fixtureSearcher())
	result, err := ct.Execute(context.Background(), map[string]any{
		"product_names": []any{"Dell XPS 13", "MacBook Air M2", "Dell Inspiron 15", "iPhone 15 Pro"},
		"category":      "laptop",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var payload comparePayload
	json.Unmarshal([]byte(result.Content), &payload)
	if len(payload.Products)+len(payload.NotFound) > 3 {
		t.Errorf("more than 3 products compared: %+v", payload)
	}
}

func TestCompareTool_NoNameResolvesIsNotFound(t *testing.T) {
	ct := NewCompareTool(fixtureSearcher())
	_, err := ct.Execute(context.Background(), map[string]any{
		"product_names": []any{"Asus Zenbook", "Acer Swift"},
		"category":      "laptop",
	})
	if err == nil {
		t.Fatal("expected error when no product resolves")
	}
	if !errors.Is(err, tool.ErrNotFound) {
		t.Errorf("expected tool.ErrNotFound, got %v", err)
	}
}

func TestRecommendTool_PrefersPriorityMatches(t *testing.T) {
	rt := NewRecommendTool(fixtureSearcher())
	result, err := rt.Execute(context.Background(), map[string]any{
		"usage":      "laptop",
		"category":   "laptop",
		"budget_max": float64(30000000),
		"priorities": []any{"battery_life"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var payload recommendPayload
	if err := json.Unmarshal([]byte(result.Content), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(payload.Recommendations) == 0 {
		t.Fatal("expected recommendations")
	}
	if payload.Recommendations[0].Product.ID != "lap-003" {
		t.Errorf("expected MacBook Air first, got %s", payload.Recommendations[0].Product.ID)
	}
	if len(payload.Recommendations) > 5 {
		t.Errorf("more than 5 recommendations: %d", len(payload.Recommendations))
	}
}

func TestReviewTool_SummaryAndSort(t *testing.T) {
	rt := NewReviewTool(fixtureSearcher())
	result, err := rt.Execute(context.Background(), map[string]any{
		"product_name": "Dell XPS 13",
		"sort":         "helpful",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var payload reviewPayload
	if err := json.Unmarshal([]byte(result.Content), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Product.ID != "lap-001" {
		t.Errorf("product: got %s", payload.Product.ID)
	}
	if payload.Summary.Total != 4 {
		t.Errorf("total: got %d", payload.Summary.Total)
	}
	if payload.Summary.AverageRating != 4.0 {
		t.Errorf("average: got %v", payload.Summary.AverageRating)
	}
	if payload.Summary.Distribution["5"] != 2 {
		t.Errorf("distribution: %+v", payload.Summary.Distribution)
	}
	if len(payload.Summary.TopPros) == 0 || payload.Summary.TopPros[0] != "màn hình đẹp" {
		t.Errorf("top pros: %v", payload.Summary.TopPros)
	}
	if payload.Reviews[0].ID != "r1" {
		t.Errorf("helpful sort: first review %s", payload.Reviews[0].ID)
	}
}

func TestReviewTool_RatingFilter(t *testing.T) {
	rt := NewReviewTool(fixtureSearcher())
	result, err := rt.Execute(context.Background(), map[string]any{
		"product_name":  "Dell XPS 13",
		"rating_filter": 5,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var payload reviewPayload
	json.Unmarshal([]byte(result.Content), &payload)
	if payload.Summary.Total != 2 {
		t.Errorf("expected 2 five-star reviews, got %d", payload.Summary.Total)
	}
	for _, r := range payload.Reviews {
		if r.Rating != 5 {
			t.Errorf("unexpected rating %v", r.Rating)
		}
	}
}

func TestReviewTool_UnknownProduct(t *testing.T) {
	rt := NewReviewTool(fixtureSearcher())
	_, err := rt.Execute(context.Background(), map[string]any{
		"product_name": "zzz-không-tồn-tại",
	})
	if err == nil {
		t.Fatal("expected error for unknown product")
	}
}
