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
	"regexp"
	"strconv"
	"strings"
)

// 规则层参数提取：确定性的 (pattern, handler) 有序链。
// 同一输入两次提取结果必须一致。

const million = 1_000_000

// approxBandRatio "khoảng N triệu" 的上下浮动比例
const approxBandRatio = 0.2

// priceRule 单条价格规则
type priceRule struct {
	re    *regexp.Regexp
	apply func(m []string, min, max *float64)
}

// priceRules 价格规则链，按声明顺序尝试，首个命中生效
var priceRules = []priceRule{
	{
		re: regexp.MustCompile(`từ\s+(\d+(?:[.,]\d+)?)\s*(?:triệu)?\s*(?:đến|tới)\s*(\d+(?:[.,]\d+)?)\s*triệu`),
		apply: func(m []string, min, max *float64) {
			*min = parseMillions(m[1])
			*max = parseMillions(m[2])
		},
	},
	{
		re: regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*-\s*(\d+(?:[.,]\d+)?)\s*triệu`),
		apply: func(m []string, min, max *float64) {
			*min = parseMillions(m[1])
			*max = parseMillions(m[2])
		},
	},
	{
		re: regexp.MustCompile(`dưới\s+(\d+(?:[.,]\d+)?)\s*triệu`),
		apply: func(m []string, min, max *float64) {
			*max = parseMillions(m[1])
		},
	},
	{
		re: regexp.MustCompile(`trên\s+(\d+(?:[.,]\d+)?)\s*triệu`),
		apply: func(m []string, min, max *float64) {
			*min = parseMillions(m[1])
		},
	},
	{
		re: regexp.MustCompile(`(?:khoảng|tầm)\s+(\d+(?:[.,]\d+)?)\s*triệu`),
		apply: func(m []string, min, max *float64) {
			center := parseMillions(m[1])
			*min = center * (1 - approxBandRatio)
			*max = center * (1 + approxBandRatio)
		},
	},
}

// extractPrice 从消息提取价格区间（VND）
func extractPrice(normalized string) (min, max float64) {
	for _, rule := range priceRules {
		if m := rule.re.FindStringSubmatch(normalized); m != nil {
			rule.apply(m, &min, &max)
			return min, max
		}
	}
	return 0, 0
}

func parseMillions(s string) float64 {
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v * million
}

// quantityRule 单条数量规则
type quantityRule struct {
	re    *regexp.Regexp
	apply func(m []string) int
}

var quantityRules = []quantityRule{
	{
		re:    regexp.MustCompile(`tìm\s+(\d+)`),
		apply: func(m []string) int { return clampQuantity(atoi(m[1])) },
	},
	{
		re:    regexp.MustCompile(`(\d+)\s*(?:sản phẩm|cái|chiếc|mẫu)`),
		apply: func(m []string) int { return clampQuantity(atoi(m[1])) },
	},
	{
		re:    regexp.MustCompile(`một vài|vài|mấy`),
		apply: func(m []string) int { return 4 },
	},
	{
		re:    regexp.MustCompile(`nhiều|tất cả`),
		apply: func(m []string) int { return 10 },
	},
}

// defaultQuantity 未指定数量时的默认值
const defaultQuantity = 3

// extractQuantity 从消息提取期望数量，1-10，默认 3
func extractQuantity(normalized string) int {
	for _, rule := range quantityRules {
		if m := rule.re.FindStringSubmatch(normalized); m != nil {
			return rule.apply(m)
		}
	}
	return defaultQuantity
}

func clampQuantity(n int) int {
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// knownBrands 可识别的品牌
var knownBrands = []string{
	"apple", "samsung", "dell", "hp", "asus", "xiaomi",
	"oppo", "vivo", "lenovo", "acer", "sony", "huawei",
}

// brandAliases 产品线 → 品牌，按声明顺序匹配
var brandAliases = []struct {
	alias string
	brand string
}{
	{"iphone", "apple"},
	{"macbook", "apple"},
	{"galaxy", "samsung"},
}

// extractBrand 识别品牌（小写），未识别返回空
func extractBrand(normalized string) string {
	for _, b := range knownBrands {
		if strings.Contains(normalized, b) {
			return b
		}
	}
	for _, a := range brandAliases {
		if strings.Contains(normalized, a.alias) {
			return a.brand
		}
	}
	return ""
}

// extractCategory 识别品类
func extractCategory(normalized string) string {
	switch {
	case containsAny(normalized, []string{"laptop", "máy tính xách tay", "macbook"}):
		return "laptop"
	case containsAny(normalized, []string{"điện thoại", "smartphone", "iphone", "galaxy"}):
		return "smartphone"
	}
	return ""
}

// usageBucket 用途 → 优先项
type usageBucket struct {
	keywords   []string
	usage      string
	priorities []string
}

var usageBuckets = []usageBucket{
	{keywords: []string{"gaming", "chơi game", "game"}, usage: "gaming", priorities: []string{"performance", "gaming"}},
	{keywords: []string{"lập trình", "code", "dev"}, usage: "lập trình", priorities: []string{"performance", "display_quality"}},
	{keywords: []string{"học tập", "sinh viên", "đi học"}, usage: "học tập", priorities: []string{"portability", "battery_life"}},
	{keywords: []string{"làm việc", "văn phòng"}, usage: "làm việc", priorities: []string{"performance", "display_quality"}},
	{keywords: []string{"chụp ảnh", "quay phim", "camera"}, usage: "chụp ảnh", priorities: []string{"camera"}},
}

// extractUsage 识别用途及其默认优先项
func extractUsage(normalized string) (string, []string) {
	for _, bucket := range usageBuckets {
		if containsAny(normalized, bucket.keywords) {
			return bucket.usage, bucket.priorities
		}
	}
	return "", nil
}

// extractMustHave 识别硬性要求
func extractMustHave(normalized string) []string {
	var out []string
	if strings.Contains(normalized, "ssd") {
		out = append(out, "ssd")
	}
	if strings.Contains(normalized, "cảm ứng") || strings.Contains(normalized, "touchscreen") {
		out = append(out, "touchscreen")
	}
	return out
}

// fallbackSearchParams search 参数的规则层提取
func fallbackSearchParams(message string) SearchParams {
	normalized := strings.ToLower(message)
	min, max := extractPrice(normalized)
	return SearchParams{
		Query:    message,
		Category: extractCategory(normalized),
		Brand:    extractBrand(normalized),
		PriceMin: min,
		PriceMax: max,
		Quantity: extractQuantity(normalized),
		MustHave: extractMustHave(normalized),
	}
}

// compareSplitRe 对比句式中的连接词
var compareSplitRe = regexp.MustCompile(`\s+(?:và|với|hay|vs)\s+|,`)

// compareLeadRe 对比句式的前导词
var compareLeadRe = regexp.MustCompile(`^\s*(?:so sánh|so sánh giúp|giúp mình so sánh)\s+`)

// fallbackCompareParams compare 参数的规则层提取：
// 去掉前导动词后按连接词切分出商品名
func fallbackCompareParams(message string) CompareParams {
	normalized := strings.ToLower(message)
	stripped := compareLeadRe.ReplaceAllString(normalized, "")
	parts := compareSplitRe.Split(stripped, -1)

	var names []string
	for _, part := range parts {
		part = strings.TrimSpace(strings.Trim(part, "?!."))
		if part != "" {
			names = append(names, part)
		}
	}
	if len(names) > maxSnapshotNames {
		names = names[:maxSnapshotNames]
	}

	return CompareParams{
		ProductNames: names,
		Category:     extractCategory(normalized),
	}
}

// maxSnapshotNames 对比实体上限，与记忆快照上限一致
const maxSnapshotNames = 3

// fallbackRecommendParams recommend 参数的规则层提取
func fallbackRecommendParams(message string) RecommendParams {
	normalized := strings.ToLower(message)
	min, max := extractPrice(normalized)
	usage, priorities := extractUsage(normalized)
	return RecommendParams{
		Usage:      usage,
		Category:   extractCategory(normalized),
		BudgetMin:  min,
		BudgetMax:  max,
		Priorities: priorities,
	}
}

// reviewStripRe review 句式中的疑问与功能词
var reviewStripRe = regexp.MustCompile(`đánh giá|nhận xét|review|phản hồi|có tốt không|thế nào|ra sao|như thế nào|mọi người|của|về|xem|cho mình|giúp mình|\?`)

// fallbackReviewParams review 参数的规则层提取：剥掉功能词后余下部分视为商品名
func fallbackReviewParams(message string) ReviewParams {
	normalized := strings.ToLower(message)

	sort := ""
	switch {
	case strings.Contains(normalized, "mới nhất"):
		sort = "newest"
	case strings.Contains(normalized, "cũ nhất"):
		sort = "oldest"
	case strings.Contains(normalized, "tốt nhất"), strings.Contains(normalized, "cao nhất"):
		sort = "rating_high"
	case strings.Contains(normalized, "tệ nhất"), strings.Contains(normalized, "thấp nhất"):
		sort = "rating_low"
	case strings.Contains(normalized, "hữu ích"):
		sort = "helpful"
	}

	name := reviewStripRe.ReplaceAllString(normalized, " ")
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		// 剥不出名字时用原句兜底，交给检索做模糊匹配
		name = strings.TrimSpace(message)
	}

	return ReviewParams{
		ProductName: name,
		Sort:        sort,
	}
}
