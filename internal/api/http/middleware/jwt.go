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

package middleware

import (
	"context"
	"os"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	hertzjwt "github.com/hertz-contrib/jwt"
)

// identityKey JWT claims 中的身份字段
const identityKey = "identity"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// NewJWTAuth 创建 JWT 认证中间件。
// 登录凭据取自 API_AUTH_USER / API_AUTH_PASSWORD 环境变量。
func NewJWTAuth(key []byte, timeout, maxRefresh time.Duration) (*hertzjwt.HertzJWTMiddleware, error) {
	return hertzjwt.New(&hertzjwt.HertzJWTMiddleware{
		Realm:       "advisor",
		Key:         key,
		Timeout:     timeout,
		MaxRefresh:  maxRefresh,
		IdentityKey: identityKey,
		Authenticator: func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
			var req loginRequest
			if err := c.BindJSON(&req); err != nil {
				return nil, hertzjwt.ErrMissingLoginValues
			}
			user := os.Getenv("API_AUTH_USER")
			pass := os.Getenv("API_AUTH_PASSWORD")
			if user == "" || req.Username != user || req.Password != pass {
				return nil, hertzjwt.ErrFailedAuthentication
			}
			return req.Username, nil
		},
		PayloadFunc: func(data interface{}) hertzjwt.MapClaims {
			if name, ok := data.(string); ok {
				return hertzjwt.MapClaims{identityKey: name}
			}
			return hertzjwt.MapClaims{}
		},
		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			claims := hertzjwt.ExtractClaims(ctx, c)
			return claims[identityKey]
		},
		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			c.JSON(code, map[string]string{"error": message})
		},
	})
}
