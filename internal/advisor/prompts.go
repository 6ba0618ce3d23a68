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
	"fmt"
	"strings"
)

// classifyPrompt 意图分类提示词
func classifyPrompt(message string) string {
	return fmt.Sprintf(`Bạn là bộ phân loại ý định cho trợ lý tư vấn mua sắm.
Phân loại tin nhắn của khách hàng vào đúng MỘT trong các nhãn sau:

- greeting: chào hỏi, mở đầu cuộc trò chuyện
- search: tìm kiếm sản phẩm theo tiêu chí (tên, giá, thương hiệu)
- compare: so sánh hai hoặc nhiều sản phẩm
- recommend: nhờ gợi ý/tư vấn sản phẩm phù hợp với nhu cầu
- review: hỏi về đánh giá, nhận xét của người dùng về sản phẩm
- direct: câu hỏi chung, không cần dữ liệu sản phẩm

Ví dụ:
- "Xin chào shop" -> greeting
- "Tìm laptop Dell dưới 25 triệu" -> search
- "So sánh iPhone 15 và Samsung S24" -> compare
- "Nên mua laptop nào để lập trình?" -> recommend
- "Dell XPS 13 có tốt không, mọi người đánh giá sao?" -> review
- "RAM là gì?" -> direct

Tin nhắn: %q

Chỉ trả về đúng một nhãn, không giải thích.`, message)
}

// extractSearchPrompt search 参数抽取提示词
func extractSearchPrompt(message string) string {
	return fmt.Sprintf(`Trích xuất tham số tìm kiếm từ tin nhắn của khách hàng.
Trả về JSON đúng định dạng sau, bỏ trống trường không có thông tin:
{
  "query": "từ khóa tìm kiếm",
  "category": "laptop | smartphone | ...",
  "brand": "thương hiệu (viết thường)",
  "price_min": 0,
  "price_max": 0,
  "quantity": 3,
  "must_have": ["ssd", "touchscreen"]
}
Giá tính bằng VND (ví dụ "25 triệu" = 25000000).

Tin nhắn: %q

Chỉ trả về JSON, không giải thích.`, message)
}

// extractComparePrompt compare 参数抽取提示词
func extractComparePrompt(message string) string {
	return fmt.Sprintf(`Trích xuất danh sách sản phẩm cần so sánh từ tin nhắn.
Trả về JSON đúng định dạng:
{
  "product_names": ["tên sản phẩm 1", "tên sản phẩm 2"],
  "category": "laptop | smartphone | ...",
  "aspects": ["khía cạnh cần so sánh"]
}

Tin nhắn: %q

Chỉ trả về JSON, không giải thích.`, message)
}

// extractRecommendPrompt recommend 参数抽取提示词
func extractRecommendPrompt(message string) string {
	return fmt.Sprintf(`Trích xuất nhu cầu tư vấn từ tin nhắn của khách hàng.
Trả về JSON đúng định dạng:
{
  "usage": "mục đích sử dụng (gaming, học tập, lập trình, văn phòng, chụp ảnh)",
  "category": "laptop | smartphone | ...",
  "budget_min": 0,
  "budget_max": 0,
  "priorities": ["performance", "battery_life", "camera", "display_quality", "portability"]
}
Giá tính bằng VND.

Tin nhắn: %q

Chỉ trả về JSON, không giải thích.`, message)
}

// extractReviewPrompt review 参数抽取提示词
func extractReviewPrompt(message string) string {
	return fmt.Sprintf(`Trích xuất yêu cầu xem đánh giá từ tin nhắn.
Trả về JSON đúng định dạng:
{
  "product_name": "tên sản phẩm",
  "rating_filter": 0,
  "sort": "newest | oldest | rating_high | rating_low | helpful",
  "limit": 10
}

Tin nhắn: %q

Chỉ trả về JSON, không giải thích.`, message)
}

// synthesisSystemPrompt 回复生成的 system 提示词
const synthesisSystemPrompt = `Bạn là trợ lý tư vấn mua sắm thân thiện, trả lời bằng tiếng Việt.
Dựa vào dữ liệu trong ngữ cảnh để trả lời chính xác, ngắn gọn và hữu ích.
Không bịa ra sản phẩm hay thông số không có trong dữ liệu.
Khi liệt kê sản phẩm, nêu tên, giá và điểm nổi bật.`

// contextTags 工具输出在生成上下文中的标记
var contextTags = map[string]string{
	"search":    "=== SEARCH RESULTS ===",
	"compare":   "=== COMPARISON DATA ===",
	"recommend": "=== RECOMMENDATIONS ===",
	"review":    "=== REVIEW DATA ===",
}

// generalAssistantTag direct 意图（无工具数据）下的上下文标记
const generalAssistantTag = "=== GENERAL ASSISTANT MODE ===\nKhông có dữ liệu sản phẩm. Trả lời như một trợ lý hiểu biết về công nghệ."

// buildSynthesisContext 拼装生成上下文：按固定顺序带上各工具输出
func buildSynthesisContext(toolOutputs map[string]string, entities []string) string {
	var b strings.Builder

	for _, name := range []string{"search", "compare", "recommend", "review"} {
		out, ok := toolOutputs[name]
		if !ok || out == "" {
			continue
		}
		b.WriteString(contextTags[name])
		b.WriteString("\n")
		b.WriteString(out)
		b.WriteString("\n\n")
	}

	if b.Len() == 0 {
		b.WriteString(generalAssistantTag)
		b.WriteString("\n")
	}

	if len(entities) > 0 {
		b.WriteString("Sản phẩm đang được nhắc đến: ")
		b.WriteString(strings.Join(entities, ", "))
		b.WriteString("\n")
	}

	return b.String()
}
