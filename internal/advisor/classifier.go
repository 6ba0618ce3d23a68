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
	"strings"
	"sync"

	"product-advisor/internal/model/llm"
	"product-advisor/pkg/metrics"
)

// Classifier 意图分类器：LLM 为主，规则兜底。LLM 输出不在封闭集内
// 或调用失败时静默降级，分类永不对外报错。
type Classifier struct {
	client llm.Client
	memo   sync.Map // normalized message -> Intent
}

// NewClassifier 创建分类器；client 可为 nil（纯规则模式）
func NewClassifier(client llm.Client) *Classifier {
	return &Classifier{client: client}
}

// Classify 返回意图与来源（"llm" | "llm-cache" | "rule"）
func (c *Classifier) Classify(ctx context.Context, message string) (Intent, string) {
	normalized := strings.ToLower(strings.TrimSpace(message))

	if cached, ok := c.memo.Load(normalized); ok {
		return cached.(Intent), "llm-cache"
	}

	if c.client != nil {
		raw, err := c.client.GenerateWithContext(ctx, classifyPrompt(message), llm.GenerateOptions{
			Temperature: 0,
			MaxTokens:   10,
		})
		if err == nil {
			label := strings.ToLower(strings.TrimSpace(raw))
			if intent, ok := ParseIntent(label); ok && intent != IntentError {
				c.memo.Store(normalized, intent)
				return intent, "llm"
			}
		}
	}

	metrics.ClassifierFallbackTotal.Inc()
	return ruleClassify(normalized), "rule"
}

// 规则分类关键词，按优先级排列
var (
	greetingWords  = []string{"xin chào", "chào shop", "chào bạn", "hello", "hi ", "alo"}
	compareWords   = []string{"so sánh", "khác nhau", "khác gì", "tốt hơn", "hơn kém"}
	recommendWords = []string{"gợi ý", "tư vấn", "nên mua", "phù hợp", "đề xuất", "nên chọn"}
	reviewWords    = []string{"đánh giá", "nhận xét", "review", "phản hồi", "có tốt không"}
	searchWords    = []string{"tìm", "mua", "cần", "giá", "laptop", "điện thoại", "smartphone", "máy tính", "tai nghe"}
)

// ruleClassify 按关键词优先级分类：greeting > compare > recommend > review > search > direct
func ruleClassify(normalized string) Intent {
	switch {
	case isGreetingOnly(normalized):
		return IntentGreeting
	case containsAny(normalized, compareWords):
		return IntentCompare
	case containsAny(normalized, recommendWords):
		return IntentRecommend
	case containsAny(normalized, reviewWords):
		return IntentReview
	case containsAny(normalized, searchWords):
		return IntentSearch
	default:
		return IntentDirect
	}
}

// isGreetingOnly 短问候，且不含商品类关键词
func isGreetingOnly(normalized string) bool {
	if !containsAny(normalized, greetingWords) && normalized != "hi" && normalized != "chào" {
		return false
	}
	// "chào shop, tìm laptop..." 仍是 search
	return !containsAny(normalized, searchWords) &&
		!containsAny(normalized, compareWords) &&
		!containsAny(normalized, recommendWords) &&
		!containsAny(normalized, reviewWords)
}
