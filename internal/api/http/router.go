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

package http

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/route"
	hertzjwt "github.com/hertz-contrib/jwt"

	"product-advisor/internal/api/http/middleware"
)

// Router HTTP 路由器
type Router struct {
	handler    *Handler
	middleware *middleware.Middleware
	jwt        *hertzjwt.HertzJWTMiddleware
}

// NewRouter 创建 HTTP 路由器
func NewRouter(handler *Handler, mw *middleware.Middleware) *Router {
	return &Router{
		handler:    handler,
		middleware: mw,
	}
}

// SetJWT 启用 JWT 认证（对话与会话管理路由）
func (r *Router) SetJWT(jwt *hertzjwt.HertzJWTMiddleware) {
	r.jwt = jwt
}

// Build 构建 Hertz Server 并注册路由
func (r *Router) Build(addr string, opts ...config.Option) *server.Hertz {
	serverOpts := append([]config.Option{server.WithHostPorts(addr)}, opts...)
	h := server.Default(serverOpts...)

	h.Use(r.middleware.CORS())

	// 健康与指标不走认证
	h.GET("/api/health", r.handler.HealthCheck)
	h.GET("/metrics", r.handler.Metrics)

	api := h.Group("/api")
	if r.jwt != nil {
		h.POST("/api/login", r.jwt.LoginHandler)
		api.Use(r.jwt.MiddlewareFunc())
	}

	r.register(api)
	return h
}

func (r *Router) register(api *route.RouterGroup) {
	api.POST("/chat", r.handler.Chat)
	api.GET("/tools", r.handler.ListTools)

	sessions := api.Group("/sessions")
	{
		sessions.GET("/:id/history", r.handler.SessionHistory)
		sessions.DELETE("/:id", r.handler.DeleteSession)
		sessions.DELETE("", r.handler.ResetSessions)
	}
}
