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
	"fmt"
	"sort"
	"strings"

	"product-advisor/internal/catalog"
	"product-advisor/internal/tool"
)

const (
	maxRecommendations = 5
	ratingScoreCap     = 20.0
	featureScoreCap    = 40.0
	featureMatchScore  = 10.0
	specMatchScore     = 8.0
	budgetFitScore     = 10.0
)

// RecommendTool 根据 nhu cầu sử dụng và ngân sách gợi ý sản phẩm
type RecommendTool struct {
	searcher catalog.Searcher
}

// NewRecommendTool 创建推荐工具
func NewRecommendTool(searcher catalog.Searcher) *RecommendTool {
	return &RecommendTool{searcher: searcher}
}

// Name 实现 Tool
func (t *RecommendTool) Name() string { return "recommend" }

// Description 实现 Tool
func (t *RecommendTool) Description() string {
	return "Gợi ý sản phẩm phù hợp với nhu cầu sử dụng, ngân sách và ưu tiên của người dùng"
}

// Schema 实现 Tool
func (t *RecommendTool) Schema() tool.Schema {
	return tool.Schema{
		Type: "object",
		Properties: map[string]tool.SchemaProperty{
			"usage":      {Type: "string", Description: "Mục đích sử dụng (gaming, học tập, lập trình, ...)"},
			"category":   {Type: "string", Description: "Danh mục sản phẩm"},
			"budget_min": {Type: "number", Description: "Ngân sách tối thiểu (VND)"},
			"budget_max": {Type: "number", Description: "Ngân sách tối đa (VND)"},
			"priorities": {Type: "array", Description: "Các tiêu chí ưu tiên (performance, battery_life, camera, ...)"},
		},
	}
}

// recommendation 推荐结果条目
type recommendation struct {
	Product *catalog.Product `json:"product"`
	Score   float64          `json:"score"`
	Reasons []string         `json:"reasons,omitempty"`
}

// recommendPayload recommend 工具的 JSON 输出
type recommendPayload struct {
	Usage           string           `json:"usage,omitempty"`
	Recommendations []recommendation `json:"recommendations"`
}

// Execute 实现 Tool
func (t *RecommendTool) Execute(ctx context.Context, input map[string]any) (tool.ToolResult, error) {
	usage := inputString(input, "usage")
	priorities := inputStringSlice(input, "priorities")

	filters := &catalog.Filters{
		Category: inputString(input, "category"),
		PriceMin: inputFloat(input, "budget_min"),
		PriceMax: inputFloat(input, "budget_max"),
	}

	query := usage
	if query == "" {
		query = filters.Category
	}

	products, err := t.searcher.Search(ctx, query, filters, 20)
	if err != nil {
		return tool.ToolResult{Err: err.Error()}, fmt.Errorf("recommend tool: %w", err)
	}

	recs := make([]recommendation, 0, len(products))
	for _, p := range products {
		score, reasons := scoreProduct(p, priorities, filters.PriceMax)
		recs = append(recs, recommendation{Product: p, Score: score, Reasons: reasons})
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}

	body, err := json.Marshal(recommendPayload{Usage: usage, Recommendations: recs})
	if err != nil {
		return tool.ToolResult{Err: err.Error()}, fmt.Errorf("recommend tool: marshal: %w", err)
	}
	return tool.ToolResult{Content: string(body)}, nil
}

// scoreProduct 打分：评分贡献最多 20 分；优先项命中 features +10、specs +8，
// 合计封顶 40 分；在预算内 +10 分。
func scoreProduct(p *catalog.Product, priorities []string, budgetMax float64) (float64, []string) {
	var reasons []string

	ratingScore := p.Rating * 4
	if ratingScore > ratingScoreCap {
		ratingScore = ratingScoreCap
	}
	if p.Rating >= 4.5 {
		reasons = append(reasons, fmt.Sprintf("Đánh giá cao (%.1f/5)", p.Rating))
	}

	featureScore := 0.0
	for _, priority := range priorities {
		needle := strings.ToLower(strings.ReplaceAll(priority, "_", " "))
		matched := false
		for _, f := range p.Features {
			if strings.Contains(strings.ToLower(f), needle) {
				featureScore += featureMatchScore
				matched = true
				break
			}
		}
		if !matched {
			for k, v := range p.Specifications {
				if strings.Contains(strings.ToLower(k+" "+v), needle) {
					featureScore += specMatchScore
					matched = true
					break
				}
			}
		}
		if matched {
			reasons = append(reasons, fmt.Sprintf("Phù hợp tiêu chí %s", priority))
		}
	}
	if featureScore > featureScoreCap {
		featureScore = featureScoreCap
	}

	budgetScore := 0.0
	if budgetMax > 0 && p.Price <= budgetMax {
		budgetScore = budgetFitScore
		reasons = append(reasons, "Nằm trong ngân sách")
	}

	return ratingScore + featureScore + budgetScore, reasons
}
