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

package advisor

// SearchParams search 意图的工具参数
type SearchParams struct {
	Query    string   `json:"query"`
	Category string   `json:"category,omitempty"`
	Brand    string   `json:"brand,omitempty"`
	PriceMin float64  `json:"price_min,omitempty"`
	PriceMax float64  `json:"price_max,omitempty"`
	Quantity int      `json:"quantity,omitempty"`
	MustHave []string `json:"must_have,omitempty"`
}

// ToInput 转为工具输入
func (p SearchParams) ToInput() map[string]any {
	return map[string]any{
		"query":     p.Query,
		"category":  p.Category,
		"brand":     p.Brand,
		"price_min": p.PriceMin,
		"price_max": p.PriceMax,
		"quantity":  p.Quantity,
		"must_have": p.MustHave,
	}
}

// CompareParams compare 意图的工具参数
type CompareParams struct {
	ProductNames []string `json:"product_names"`
	Category     string   `json:"category,omitempty"`
	Aspects      []string `json:"aspects,omitempty"`
}

// ToInput 转为工具输入
func (p CompareParams) ToInput() map[string]any {
	return map[string]any{
		"product_names": p.ProductNames,
		"category":      p.Category,
		"aspects":       p.Aspects,
	}
}

// RecommendParams recommend 意图的工具参数
type RecommendParams struct {
	Usage      string   `json:"usage,omitempty"`
	Category   string   `json:"category,omitempty"`
	BudgetMin  float64  `json:"budget_min,omitempty"`
	BudgetMax  float64  `json:"budget_max,omitempty"`
	Priorities []string `json:"priorities,omitempty"`
}

// ToInput 转为工具输入
func (p RecommendParams) ToInput() map[string]any {
	return map[string]any{
		"usage":      p.Usage,
		"category":   p.Category,
		"budget_min": p.BudgetMin,
		"budget_max": p.BudgetMax,
		"priorities": p.Priorities,
	}
}

// ReviewParams review 意图的工具参数
type ReviewParams struct {
	ProductName  string `json:"product_name"`
	RatingFilter int    `json:"rating_filter,omitempty"`
	Sort         string `json:"sort,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

// ToInput 转为工具输入
func (p ReviewParams) ToInput() map[string]any {
	return map[string]any{
		"product_name":  p.ProductName,
		"rating_filter": p.RatingFilter,
		"sort":          p.Sort,
		"limit":         p.Limit,
	}
}
