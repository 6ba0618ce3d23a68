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
	"fmt"
	"time"

	"product-advisor/internal/catalog"
	"product-advisor/pkg/config"
	"product-advisor/pkg/log"
	"product-advisor/pkg/secrets"
	"product-advisor/pkg/utils"
)

// Bootstrap 统一初始化：日志、密钥存储、商品目录检索后端
type Bootstrap struct {
	Config   *config.Config
	Logger   *log.Logger
	Secrets  secrets.Store
	Searcher catalog.Searcher
}

// NewBootstrap 根据配置创建 Bootstrap
func NewBootstrap(cfg *config.Config) (*Bootstrap, error) {
	logCfg := &log.Config{}
	if cfg != nil {
		logCfg.Level = cfg.Log.Level
		logCfg.Format = cfg.Log.Format
		logCfg.File = cfg.Log.File
	}
	logger, err := log.NewLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("初始化日志failed: %w", err)
	}

	var secretStore secrets.Store
	if cfg != nil && cfg.Secrets.Type != "" {
		secretStore, err = secrets.NewStore(secrets.Config{
			Provider: cfg.Secrets.Type,
			Config: map[string]string{
				"address":     cfg.Secrets.Vault.Addr,
				"token":       cfg.Secrets.Vault.Token,
				"path_prefix": cfg.Secrets.Vault.Path,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("初始化密钥存储failed: %w", err)
		}
	}

	searcher, err := newSearcher(cfg)
	if err != nil {
		return nil, err
	}

	return &Bootstrap{
		Config:   cfg,
		Logger:   logger,
		Secrets:  secretStore,
		Searcher: searcher,
	}, nil
}

// newSearcher 根据 catalog.type 创建检索后端；空或 memory 时使用内存实现
func newSearcher(cfg *config.Config) (catalog.Searcher, error) {
	if cfg == nil || cfg.Catalog.Type == "" || cfg.Catalog.Type == "memory" {
		return catalog.NewMemorySearcher(), nil
	}
	if cfg.Catalog.Type != "http" {
		return nil, fmt.Errorf("不支持的 catalog 类型: %s", cfg.Catalog.Type)
	}

	timeout := 10 * time.Second
	if cfg.Catalog.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Catalog.Timeout); err == nil && d > 0 {
			timeout = d
		}
	}
	index := utils.CoalesceString(cfg.Catalog.Index, "products")
	searcher, err := catalog.NewHTTPSearcher(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, index, timeout)
	if err != nil {
		return nil, fmt.Errorf("初始化 catalog 检索后端failed: %w", err)
	}
	return searcher, nil
}
