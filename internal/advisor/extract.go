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

import (
	"context"
	"encoding/json"
	"strings"

	"product-advisor/internal/model/llm"
	"product-advisor/pkg/metrics"
)

// Extractor 两级参数提取：LLM JSON 为主，规则链兜底。
// LLM 失败、输出非法或缺关键字段时静默降级，提取永不对外报错。
type Extractor struct {
	client llm.Client
}

// NewExtractor 创建提取器；client 可为 nil（纯规则模式）
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{client: client}
}

// extractOptions 提取调用的生成参数
var extractOptions = llm.GenerateOptions{Temperature: 0, MaxTokens: 300}

// Search 提取 search 参数，返回参数与来源（"llm" | "rule"）
func (e *Extractor) Search(ctx context.Context, message string) (SearchParams, string) {
	if e.client != nil {
		var p SearchParams
		if e.tryLLM(ctx, extractSearchPrompt(message), &p) && p.Query != "" {
			p.Quantity = clampQuantity(nonZero(p.Quantity, defaultQuantity))
			return p, "llm"
		}
	}
	metrics.ExtractorFallbackTotal.WithLabelValues(string(IntentSearch)).Inc()
	return fallbackSearchParams(message), "rule"
}

// Compare 提取 compare 参数
func (e *Extractor) Compare(ctx context.Context, message string) (CompareParams, string) {
	if e.client != nil {
		var p CompareParams
		if e.tryLLM(ctx, extractComparePrompt(message), &p) && len(p.ProductNames) >= 2 {
			if len(p.ProductNames) > maxSnapshotNames {
				p.ProductNames = p.ProductNames[:maxSnapshotNames]
			}
			return p, "llm"
		}
	}
	metrics.ExtractorFallbackTotal.WithLabelValues(string(IntentCompare)).Inc()
	return fallbackCompareParams(message), "rule"
}

// Recommend 提取 recommend 参数
func (e *Extractor) Recommend(ctx context.Context, message string) (RecommendParams, string) {
	if e.client != nil {
		var p RecommendParams
		if e.tryLLM(ctx, extractRecommendPrompt(message), &p) && (p.Usage != "" || p.Category != "" || p.BudgetMax > 0) {
			return p, "llm"
		}
	}
	metrics.ExtractorFallbackTotal.WithLabelValues(string(IntentRecommend)).Inc()
	return fallbackRecommendParams(message), "rule"
}

// Review 提取 review 参数
func (e *Extractor) Review(ctx context.Context, message string) (ReviewParams, string) {
	if e.client != nil {
		var p ReviewParams
		if e.tryLLM(ctx, extractReviewPrompt(message), &p) && p.ProductName != "" {
			return p, "llm"
		}
	}
	metrics.ExtractorFallbackTotal.WithLabelValues(string(IntentReview)).Inc()
	return fallbackReviewParams(message), "rule"
}

// tryLLM 调用 LLM 并把输出解析为 JSON；成功返回 true
func (e *Extractor) tryLLM(ctx context.Context, prompt string, out any) bool {
	raw, err := e.client.GenerateWithContext(ctx, prompt, extractOptions)
	if err != nil {
		return false
	}
	body := stripJSONFences(raw)
	return json.Unmarshal([]byte(body), out) == nil
}

// stripJSONFences 去掉 ```json 围栏并截取首个 JSON 对象
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

func nonZero(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
