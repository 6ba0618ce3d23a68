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

package app

import (
	"context"
	"fmt"
	"strings"

	"product-advisor/internal/model/llm"
	"product-advisor/pkg/config"
	"product-advisor/pkg/secrets"
)

// NewLLMClientFromConfig 根据 config.Model 的 defaults.llm 创建 LLM 客户端（如 "openai.gpt_4o_mini"）。
// api_key 未在配置中给出时，尝试从密钥存储读取 llm/<provider>/api_key。
// 配置了 rate_limits.llm 时返回限流装饰后的客户端。
func NewLLMClientFromConfig(cfg *config.Config, secretStore secrets.Store) (llm.Client, error) {
	if cfg == nil || cfg.Model.Defaults.LLM == "" {
		return nil, fmt.Errorf("defaults.llm 未配置")
	}
	provider, modelKey, err := parseDefaultKey(cfg.Model.Defaults.LLM)
	if err != nil {
		return nil, err
	}
	pc, ok := cfg.Model.LLM.Providers[provider]
	if !ok {
		return nil, fmt.Errorf("LLM provider %q 未配置", provider)
	}
	mi, ok := pc.Models[modelKey]
	if !ok {
		return nil, fmt.Errorf("LLM model %q 未在 provider %q 中配置", modelKey, provider)
	}

	apiKey := pc.APIKey
	if apiKey == "" && secretStore != nil {
		apiKey, _ = secretStore.Get(context.Background(), "llm/"+provider+"/api_key")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("LLM provider %q 的 api_key 未配置", provider)
	}

	client, err := llm.NewClient(provider, mi.Name, apiKey, pc.BaseURL)
	if err != nil {
		return nil, err
	}

	if len(cfg.RateLimits.LLM) > 0 {
		limits := make(map[string]llm.LLMLimitConfig, len(cfg.RateLimits.LLM))
		for p, rl := range cfg.RateLimits.LLM {
			limits[p] = llm.LLMLimitConfig{
				TokensPerMinute:   rl.TokensPerMinute,
				RequestsPerMinute: rl.RequestsPerMinute,
				MaxConcurrent:     rl.MaxConcurrent,
			}
		}
		client = llm.NewRateLimitedClient(client, llm.NewLLMRateLimiter(limits, nil))
	}

	return client, nil
}

func parseDefaultKey(key string) (provider, modelKey string, err error) {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("default key 格式应为 provider.model_key，如 openai.gpt_4o_mini，当前: %q", key)
	}
	return parts[0], parts[1], nil
}
