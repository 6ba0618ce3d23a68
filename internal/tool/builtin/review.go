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

	"product-advisor/internal/catalog"
	"product-advisor/internal/tool"
)

const (
	reviewFetchLimit   = 50
	reviewDisplayLimit = 10
	topMentionCount    = 3
)

// ReviewTool tổng hợp đánh giá của một sản phẩm
type ReviewTool struct {
	searcher catalog.Searcher
}

// NewReviewTool 创建评价工具
func NewReviewTool(searcher catalog.Searcher) *ReviewTool {
	return &ReviewTool{searcher: searcher}
}

// Name 实现 Tool
func (t *ReviewTool) Name() string { return "review" }

// Description 实现 Tool
func (t *ReviewTool) Description() string {
	return "Xem và tổng hợp đánh giá của người dùng về một sản phẩm"
}

// Schema 实现 Tool
func (t *ReviewTool) Schema() tool.Schema {
	return tool.Schema{
		Type: "object",
		Properties: map[string]tool.SchemaProperty{
			"product_name":  {Type: "string", Description: "Tên sản phẩm"},
			"rating_filter": {Type: "integer", Description: "Chỉ lấy đánh giá có số sao này (1-5)"},
			"sort":          {Type: "string", Description: "newest | oldest | rating_high | rating_low | helpful"},
			"limit":         {Type: "integer", Description: "Số đánh giá trả về"},
		},
		Required: []string{"product_name"},
	}
}

// reviewSummary 评价汇总
type reviewSummary struct {
	AverageRating float64        `json:"average_rating"`
	Total         int            `json:"total"`
	Distribution  map[string]int `json:"distribution"`
	TopPros       []string       `json:"top_pros,omitempty"`
	TopCons       []string       `json:"top_cons,omitempty"`
	Trend         string         `json:"trend"` // improving | declining | stable
}

// reviewPayload review 工具的 JSON 输出
type reviewPayload struct {
	Product *catalog.Product  `json:"product"`
	Reviews []*catalog.Review `json:"reviews"`
	Summary reviewSummary     `json:"summary"`
}

// Execute 实现 Tool
func (t *ReviewTool) Execute(ctx context.Context, input map[string]any) (tool.ToolResult, error) {
	name := inputString(input, "product_name")
	if name == "" {
		err := fmt.Errorf("review tool: thiếu tên sản phẩm")
		return tool.ToolResult{Err: err.Error()}, err
	}

	// 名字 → 商品：取检索 top-1
	candidates, err := t.searcher.Search(ctx, name, nil, 1)
	if err != nil {
		return tool.ToolResult{Err: err.Error()}, fmt.Errorf("review tool: %w", err)
	}
	if len(candidates) == 0 {
		err := fmt.Errorf("review tool: %w: %q", tool.ErrNotFound, name)
		return tool.ToolResult{Err: err.Error()}, err
	}
	product := candidates[0]

	reviews, err := t.searcher.Reviews(ctx, product.ID, reviewFetchLimit)
	if err != nil {
		return tool.ToolResult{Err: err.Error()}, fmt.Errorf("review tool: %w", err)
	}

	if filter := inputInt(input, "rating_filter"); filter > 0 {
		filtered := reviews[:0]
		for _, r := range reviews {
			if int(r.Rating) == filter {
				filtered = append(filtered, r)
			}
		}
		reviews = filtered
	}

	summary := summarize(reviews)
	sortReviews(reviews, inputString(input, "sort"))

	limit := inputInt(input, "limit")
	if limit <= 0 || limit > reviewDisplayLimit {
		limit = reviewDisplayLimit
	}
	if len(reviews) > limit {
		reviews = reviews[:limit]
	}

	body, err := json.Marshal(reviewPayload{Product: product, Reviews: reviews, Summary: summary})
	if err != nil {
		return tool.ToolResult{Err: err.Error()}, fmt.Errorf("review tool: marshal: %w", err)
	}
	return tool.ToolResult{Content: string(body)}, nil
}

// sortReviews 按请求的方式排序，未知方式按 newest
func sortReviews(reviews []*catalog.Review, mode string) {
	switch mode {
	case "oldest":
		sort.SliceStable(reviews, func(i, j int) bool { return reviews[i].CreatedAt < reviews[j].CreatedAt })
	case "rating_high":
		sort.SliceStable(reviews, func(i, j int) bool { return reviews[i].Rating > reviews[j].Rating })
	case "rating_low":
		sort.SliceStable(reviews, func(i, j int) bool { return reviews[i].Rating < reviews[j].Rating })
	case "helpful":
		sort.SliceStable(reviews, func(i, j int) bool { return reviews[i].HelpfulCount > reviews[j].HelpfulCount })
	default: // newest
		sort.SliceStable(reviews, func(i, j int) bool { return reviews[i].CreatedAt > reviews[j].CreatedAt })
	}
}

// summarize 汇总均分、星级分布、高频优缺点与新旧趋势
func summarize(reviews []*catalog.Review) reviewSummary {
	summary := reviewSummary{
		Total:        len(reviews),
		Distribution: make(map[string]int),
		Trend:        "stable",
	}
	if len(reviews) == 0 {
		return summary
	}

	total := 0.0
	prosCount := make(map[string]int)
	consCount := make(map[string]int)
	for _, r := range reviews {
		total += r.Rating
		summary.Distribution[fmt.Sprintf("%d", int(r.Rating))]++
		for _, p := range r.Pros {
			prosCount[p]++
		}
		for _, c := range r.Cons {
			consCount[c]++
		}
	}
	summary.AverageRating = total / float64(len(reviews))
	summary.TopPros = topMentions(prosCount, topMentionCount)
	summary.TopCons = topMentions(consCount, topMentionCount)

	// 趋势：按时间排序后前后两半均分对比
	byTime := make([]*catalog.Review, len(reviews))
	copy(byTime, reviews)
	sort.SliceStable(byTime, func(i, j int) bool { return byTime[i].CreatedAt < byTime[j].CreatedAt })
	if len(byTime) >= 4 {
		half := len(byTime) / 2
		olderAvg := averageRating(byTime[:half])
		recentAvg := averageRating(byTime[half:])
		switch {
		case recentAvg-olderAvg > 0.3:
			summary.Trend = "improving"
		case olderAvg-recentAvg > 0.3:
			summary.Trend = "declining"
		}
	}

	return summary
}

// topMentions 取提及次数最多的前 n 项
func topMentions(counts map[string]int, n int) []string {
	type entry struct {
		text  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for text, count := range counts {
		entries = append(entries, entry{text, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].text < entries[j].text
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.text
	}
	return out
}

func averageRating(reviews []*catalog.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	total := 0.0
	for _, r := range reviews {
		total += r.Rating
	}
	return total / float64(len(reviews))
}
