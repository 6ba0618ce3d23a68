package builtin

import (
	"product-advisor/internal/catalog"
	"product-advisor/internal/tool"
	"product-advisor/internal/tool/registry"
)

// RegisterBuiltin 将四个商品顾问工具注册到 ToolRegistry
func RegisterBuiltin(reg *registry.Registry, searcher catalog.Searcher) error {
	if reg == nil {
		return nil
	}
	tools := []tool.Tool{
		NewSearchTool(searcher),
		NewCompareTool(searcher),
		NewRecommendTool(searcher),
		NewReviewTool(searcher),
	}
	for _, t := range tools {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}
