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
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	pkgerrors "product-advisor/pkg/errors"
)

// HTTPSearcher 通过 HTTP 调用外部检索服务的 Searcher 实现
type HTTPSearcher struct {
	baseURL string
	apiKey  string
	index   string
	client  *resty.Client
}

// NewHTTPSearcher 创建 HTTP 检索客户端；timeout 为空时默认 10s
func NewHTTPSearcher(baseURL, apiKey, index string, timeout time.Duration) (*HTTPSearcher, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("catalog base_url 不能为空")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(2)
	client.SetRetryWaitTime(500 * time.Millisecond)
	client.SetRetryMaxWaitTime(2 * time.Second)

	return &HTTPSearcher{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		index:   index,
		client:  client,
	}, nil
}

type searchRequest struct {
	Index   string   `json:"index,omitempty"`
	Query   string   `json:"query"`
	Filters *Filters `json:"filters,omitempty"`
	TopK    int      `json:"top_k"`
}

type searchResponse struct {
	Products []*Product `json:"products"`
}

type reviewsResponse struct {
	Reviews []*Review `json:"reviews"`
}

// Search 实现 Searcher
func (s *HTTPSearcher) Search(ctx context.Context, query string, filters *Filters, topK int) ([]*Product, error) {
	if topK <= 0 {
		topK = 10
	}

	req := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(searchRequest{Index: s.index, Query: query, Filters: filters, TopK: topK})
	if s.apiKey != "" {
		req.SetHeader("X-API-Key", s.apiKey)
	}

	response, err := req.Post(s.baseURL + "/search")
	if err != nil {
		return nil, pkgerrors.Wrap(err, "调用检索服务 failed")
	}

	if err := s.checkStatus(response); err != nil {
		return nil, err
	}

	var result searchResponse
	if err := json.Unmarshal(response.Body(), &result); err != nil {
		return nil, fmt.Errorf("解析检索响应 failed: %w", err)
	}
	return result.Products, nil
}

// Reviews 实现 Searcher
func (s *HTTPSearcher) Reviews(ctx context.Context, productID string, limit int) ([]*Review, error) {
	if limit <= 0 {
		limit = 50
	}

	req := s.client.R().
		SetContext(ctx).
		SetQueryParam("limit", fmt.Sprintf("%d", limit))
	if s.apiKey != "" {
		req.SetHeader("X-API-Key", s.apiKey)
	}

	response, err := req.Get(s.baseURL + "/products/" + productID + "/reviews")
	if err != nil {
		return nil, pkgerrors.Wrap(err, "调用评价服务 failed")
	}

	if err := s.checkStatus(response); err != nil {
		return nil, err
	}

	var result reviewsResponse
	if err := json.Unmarshal(response.Body(), &result); err != nil {
		return nil, fmt.Errorf("解析评价响应 failed: %w", err)
	}
	return result.Reviews, nil
}

// Close 实现 Searcher
func (s *HTTPSearcher) Close() error {
	return nil
}

// checkStatus 将后端"索引缺失"类错误归一为 ErrIndexNotReady
func (s *HTTPSearcher) checkStatus(response *resty.Response) error {
	if response.StatusCode() == http.StatusOK {
		return nil
	}
	body := response.String()
	if response.StatusCode() == http.StatusNotFound || strings.Contains(strings.ToLower(body), "not found") {
		return fmt.Errorf("%w: %s", ErrIndexNotReady, body)
	}
	return fmt.Errorf("检索服务返回错误: %s", body)
}
