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
	"strings"

	"product-advisor/internal/catalog"
	"product-advisor/internal/tool"
)

// maxCompareProducts 单次对比的商品数上限
const maxCompareProducts = 3

// keySpecsByCategory 每个品类参与对比的关键规格
var keySpecsByCategory = map[string][]string{
	"laptop":     {"CPU", "RAM", "Storage", "Display", "Graphics", "OS"},
	"smartphone": {"Display", "Chipset", "RAM", "Storage", "Camera", "Battery", "OS"},
}

// defaultAspectsByCategory 每个品类的默认对比维度
var defaultAspectsByCategory = map[string][]string{
	"laptop":     {"hiệu năng", "màn hình", "pin", "giá"},
	"smartphone": {"camera", "pin", "màn hình", "giá"},
}

// CompareTool 对比 2-3 sản phẩm theo tên
type CompareTool struct {
	searcher catalog.Searcher
}

// NewCompareTool 创建对比工具
func NewCompareTool(searcher catalog.Searcher) *CompareTool {
	return &CompareTool{searcher: searcher}
}

// Name 实现 Tool
func (t *CompareTool) Name() string { return "compare" }

// Description 实现 Tool
func (t *CompareTool) Description() string {
	return "So sánh thông số và giá của tối đa 3 sản phẩm theo tên"
}

// Schema 实现 Tool
func (t *CompareTool) Schema() tool.Schema {
	return tool.Schema{
		Type: "object",
		Properties: map[string]tool.SchemaProperty{
			"product_names": {Type: "array", Description: "Danh sách tên sản phẩm cần so sánh"},
			"category":      {Type: "string", Description: "Danh mục sản phẩm"},
			"aspects":       {Type: "array", Description: "Các khía cạnh cần so sánh"},
		},
		Required: []string{"product_names"},
	}
}

// comparedProduct 对比结果中的单个商品
type comparedProduct struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Brand    string            `json:"brand"`
	Price    float64           `json:"price"`
	Rating   float64           `json:"rating"`
	KeySpecs map[string]string `json:"key_specs,omitempty"`
}

// comparePayload compare 工具的 JSON 输出
type comparePayload struct {
	Products []comparedProduct `json:"products"`
	NotFound []string          `json:"not_found,omitempty"`
	Aspects  []string          `json:"aspects,omitempty"`
	Category string            `json:"category,omitempty"`
}

// Execute 实现 Tool
func (t *CompareTool) Execute(ctx context.Context, input map[string]any) (tool.ToolResult, error) {
	names := inputStringSlice(input, "product_names")
	if len(names) < 2 {
		err := fmt.Errorf("compare tool: cần ít nhất 2 tên sản phẩm")
		return tool.ToolResult{Err: err.Error()}, err
	}
	if len(names) > maxCompareProducts {
		names = names[:maxCompareProducts]
	}

	category := inputString(input, "category")
	aspects := inputStringSlice(input, "aspects")
	if len(aspects) == 0 {
		aspects = defaultAspectsByCategory[category]
	}

	payload := comparePayload{Aspects: aspects, Category: category}

	for _, name := range names {
		product, err := t.resolve(ctx, name, category)
		if err != nil {
			return tool.ToolResult{Err: err.Error()}, fmt.Errorf("compare tool: %w", err)
		}
		if product == nil {
			payload.NotFound = append(payload.NotFound, name)
			continue
		}
		payload.Products = append(payload.Products, project(product, category))
	}

	if len(payload.Products) == 0 {
		err := fmt.Errorf("compare tool: %w: %s", tool.ErrNotFound, strings.Join(names, ", "))
		return tool.ToolResult{Err: err.Error()}, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return tool.ToolResult{Err: err.Error()}, fmt.Errorf("compare tool: marshal: %w", err)
	}
	return tool.ToolResult{Content: string(body)}, nil
}

// resolve 将用户口中的名字解析为目录中的商品。匹配顺序：
// ID 精确匹配 → 名称包含 → 共享词 >= 2 → 第一个候选。
func (t *CompareTool) resolve(ctx context.Context, name, category string) (*catalog.Product, error) {
	filters := &catalog.Filters{Category: category}
	candidates, err := t.searcher.Search(ctx, name, filters, 5)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	lowered := strings.ToLower(name)
	for _, c := range candidates {
		if strings.EqualFold(c.ID, name) {
			return c, nil
		}
	}
	for _, c := range candidates {
		cn := strings.ToLower(c.Name)
		if strings.Contains(cn, lowered) || strings.Contains(lowered, cn) {
			return c, nil
		}
	}
	queryWords := strings.Fields(lowered)
	for _, c := range candidates {
		if sharedWords(queryWords, strings.Fields(strings.ToLower(c.Name))) >= 2 {
			return c, nil
		}
	}
	return candidates[0], nil
}

// sharedWords 两组词的交集大小
func sharedWords(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, w := range a {
		set[w] = struct{}{}
	}
	n := 0
	for _, w := range b {
		if _, ok := set[w]; ok {
			n++
		}
	}
	return n
}

// project 投影出该品类的关键规格
func project(p *catalog.Product, category string) comparedProduct {
	out := comparedProduct{
		ID:     p.ID,
		Name:   p.Name,
		Brand:  p.Brand,
		Price:  p.Price,
		Rating: p.Rating,
	}

	cat := category
	if cat == "" {
		cat = p.Category
	}
	keys, ok := keySpecsByCategory[strings.ToLower(cat)]
	if !ok {
		// 未知品类：全部规格原样带出
		out.KeySpecs = p.Specifications
		return out
	}

	specs := make(map[string]string)
	for _, key := range keys {
		if v, ok := p.Specifications[key]; ok {
			specs[key] = v
		}
	}
	if len(specs) > 0 {
		out.KeySpecs = specs
	}
	return out
}
