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

package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemorySearcher 内存目录实现，dev profile 与测试使用
type MemorySearcher struct {
	mu       sync.RWMutex
	products map[string]*Product
	reviews  map[string][]*Review // product id -> reviews
}

// NewMemorySearcher 创建内存目录
func NewMemorySearcher() *MemorySearcher {
	return &MemorySearcher{
		products: make(map[string]*Product),
		reviews:  make(map[string][]*Review),
	}
}

// AddProducts 批量加入商品
func (m *MemorySearcher) AddProducts(products ...*Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range products {
		m.products[p.ID] = p
	}
}

// AddReviews 批量加入评价
func (m *MemorySearcher) AddReviews(reviews ...*Review) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range reviews {
		m.reviews[r.ProductID] = append(m.reviews[r.ProductID], r)
	}
}

// Search 实现 Searcher：词重叠打分 + 过滤 + 排序
func (m *MemorySearcher) Search(ctx context.Context, query string, filters *Filters, topK int) ([]*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if topK <= 0 {
		topK = 10
	}

	type scored struct {
		product *Product
		score   float64
	}

	terms := tokenize(query)
	var results []scored

	for _, p := range m.products {
		if !matchFilters(p, filters) {
			continue
		}

		score := overlapScore(terms, p)
		// 无查询词时仅按过滤条件返回
		if len(terms) > 0 && score == 0 {
			continue
		}

		results = append(results, scored{product: p, score: score})
	}

	// 相关度优先，同分按评分
	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].product.Rating > results[j].product.Rating
	})

	if len(results) > topK {
		results = results[:topK]
	}

	out := make([]*Product, len(results))
	for i, r := range results {
		out[i] = r.product
	}
	return out, nil
}

// Reviews 实现 Searcher
func (m *MemorySearcher) Reviews(ctx context.Context, productID string, limit int) ([]*Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	list := m.reviews[productID]
	if len(list) > limit {
		list = list[:limit]
	}
	out := make([]*Review, len(list))
	copy(out, list)
	return out, nil
}

// Close 实现 Searcher
func (m *MemorySearcher) Close() error {
	return nil
}

// matchFilters 应用过滤条件
func matchFilters(p *Product, filters *Filters) bool {
	if filters == nil {
		return true
	}
	if filters.Category != "" && !strings.EqualFold(p.Category, filters.Category) {
		return false
	}
	if filters.Brand != "" && !strings.EqualFold(p.Brand, filters.Brand) {
		return false
	}
	if filters.PriceMin > 0 && p.Price < filters.PriceMin {
		return false
	}
	if filters.PriceMax > 0 && p.Price > filters.PriceMax {
		return false
	}
	for _, feature := range filters.MustHave {
		if !hasFeature(p, feature) {
			return false
		}
	}
	return true
}

// hasFeature 在 features 与 specifications 中查找关键词
func hasFeature(p *Product, feature string) bool {
	needle := strings.ToLower(feature)
	for _, f := range p.Features {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	for k, v := range p.Specifications {
		if strings.Contains(strings.ToLower(k), needle) || strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// overlapScore 查询词与商品文本的重叠打分
func overlapScore(terms []string, p *Product) float64 {
	if len(terms) == 0 {
		return 0
	}
	text := strings.ToLower(p.Name + " " + p.Brand + " " + p.Category + " " + p.Description)
	score := 0.0
	for _, term := range terms {
		if strings.Contains(text, term) {
			score += 1.0
		}
	}
	return score / float64(len(terms))
}

// tokenize 简单分词（小写、按空白切分）
func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, ".,!?\"'()")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
