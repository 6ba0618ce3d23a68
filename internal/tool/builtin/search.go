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

	"product-advisor/internal/catalog"
	"product-advisor/internal/tool"
)

// SearchTool 按条件检索商品
type SearchTool struct {
	searcher catalog.Searcher
}

// NewSearchTool 创建检索工具
func NewSearchTool(searcher catalog.Searcher) *SearchTool {
	return &SearchTool{searcher: searcher}
}

// Name 实现 Tool
func (t *SearchTool) Name() string { return "search" }

// Description 实现 Tool
func (t *SearchTool) Description() string {
	return "Tìm kiếm sản phẩm theo từ khóa, danh mục, thương hiệu và khoảng giá"
}

// Schema 实现 Tool
func (t *SearchTool) Schema() tool.Schema {
	return tool.Schema{
		Type: "object",
		Properties: map[string]tool.SchemaProperty{
			"query":     {Type: "string", Description: "Từ khóa tìm kiếm"},
			"category":  {Type: "string", Description: "Danh mục sản phẩm (laptop, smartphone, ...)"},
			"brand":     {Type: "string", Description: "Thương hiệu"},
			"price_min": {Type: "number", Description: "Giá tối thiểu (VND)"},
			"price_max": {Type: "number", Description: "Giá tối đa (VND)"},
			"quantity":  {Type: "integer", Description: "Số lượng kết quả mong muốn"},
		},
		Required: []string{"query"},
	}
}

// searchPayload search 工具的 JSON 输出
type searchPayload struct {
	Query    string             `json:"query"`
	Total    int                `json:"total"`
	Products []*catalog.Product `json:"products"`
}

// Execute 实现 Tool
func (t *SearchTool) Execute(ctx context.Context, input map[string]any) (tool.ToolResult, error) {
	query := inputString(input, "query")
	quantity := inputInt(input, "quantity")
	if quantity <= 0 {
		quantity = 3
	}
	if quantity > 10 {
		quantity = 10
	}

	filters := &catalog.Filters{
		Category: inputString(input, "category"),
		Brand:    inputString(input, "brand"),
		PriceMin: inputFloat(input, "price_min"),
		PriceMax: inputFloat(input, "price_max"),
		MustHave: inputStringSlice(input, "must_have"),
	}

	products, err := t.searcher.Search(ctx, query, filters, quantity)
	if err != nil {
		return tool.ToolResult{Err: err.Error()}, fmt.Errorf("search tool: %w", err)
	}

	payload := searchPayload{Query: query, Total: len(products), Products: products}
	body, err := json.Marshal(payload)
	if err != nil {
		return tool.ToolResult{Err: err.Error()}, fmt.Errorf("search tool: marshal: %w", err)
	}
	return tool.ToolResult{Content: string(body)}, nil
}
