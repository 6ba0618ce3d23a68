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
	"errors"
)

// ErrIndexNotReady 检索后端索引不存在或未初始化
var ErrIndexNotReady = errors.New("catalog index not ready")

// Product 商品
type Product struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Brand          string            `json:"brand"`
	Category       string            `json:"category"`
	Price          float64           `json:"price"`
	Rating         float64           `json:"rating"`
	Description    string            `json:"description,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Features       []string          `json:"features,omitempty"`
}

// Review 商品评价
type Review struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"product_id"`
	Author       string  `json:"author,omitempty"`
	Rating       float64 `json:"rating"`
	Title        string  `json:"title,omitempty"`
	Content      string  `json:"content"`
	Pros         []string `json:"pros,omitempty"`
	Cons         []string `json:"cons,omitempty"`
	HelpfulCount int     `json:"helpful_count"`
	CreatedAt    string  `json:"created_at"` // RFC3339
}

// Filters 检索过滤条件
type Filters struct {
	Category string   `json:"category,omitempty"`
	Brand    string   `json:"brand,omitempty"`
	PriceMin float64  `json:"price_min,omitempty"`
	PriceMax float64  `json:"price_max,omitempty"`
	MustHave []string `json:"must_have,omitempty"` // 如 ssd, touchscreen
}

// Searcher 商品目录检索抽象
type Searcher interface {
	// Search 按查询与过滤条件检索商品，按相关度排序，最多返回 topK 条
	Search(ctx context.Context, query string, filters *Filters, topK int) ([]*Product, error)
	// Reviews 获取指定商品的评价，最多 limit 条
	Reviews(ctx context.Context, productID string, limit int) ([]*Review, error)
	// Close 关闭后端连接
	Close() error
}
