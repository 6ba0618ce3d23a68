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
	"strings"

	"product-advisor/internal/advisor/session"
)

// ContextResolution 指代消解结果
type ContextResolution struct {
	Referenced bool     // 消息指向上一轮的商品
	Entities   []string // 被指向的商品名，保持上一轮顺序
	Forced     Intent   // 指代确定的意图；为空字符串时仍需分类
}

// 指代检测用的关键词组
var (
	comparisonRefs = []string{"so sánh", "khác nhau", "khác gì", "cái nào tốt hơn", "cái nào hơn"}
	quantityRefs   = []string{"2 cái", "hai cái", "cả hai", "cả 2", "3 cái", "ba cái", "cả ba", "cả 3"}
	pronounRefs    = []string{"sản phẩm đó", "cái đó", "máy đó", "con đó", "nó", "chúng", "mấy cái đó"}
	reviewRefs     = []string{"đánh giá", "nhận xét", "review", "có tốt không", "ý kiến"}
)

// ResolveContext 在分类前做指代消解：消息含指代词且上一轮有商品实体时，
// 将实体带入本轮，并在语义明确时直接锁定意图（对比/评价），不再走分类器。
// 对比指代要求记忆中至少 2 个实体，不足时放弃该判定；
// 评价指代只要有 1 个实体即可成立，无需同时出现代词。
func ResolveContext(message string, snapshot session.MemorySnapshot) ContextResolution {
	if len(snapshot.Entities) == 0 {
		return ContextResolution{}
	}

	lowered := strings.ToLower(message)
	hasComparison := containsAny(lowered, comparisonRefs)
	hasQuantity := containsAny(lowered, quantityRefs)
	hasPronoun := containsAny(lowered, pronounRefs)
	hasReview := containsAny(lowered, reviewRefs)

	res := ContextResolution{
		Referenced: true,
		Entities:   snapshot.Entities,
	}

	switch {
	case hasComparison && len(snapshot.Entities) >= 2:
		res.Forced = IntentCompare
	case hasReview:
		res.Forced = IntentReview
		// 评价只针对单个商品，取第一个实体
		res.Entities = snapshot.Entities[:1]
	case hasQuantity || hasPronoun:
		// 仅代词/数量指代：带入实体，意图仍由分类器决定
	default:
		return ContextResolution{}
	}

	return res
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
