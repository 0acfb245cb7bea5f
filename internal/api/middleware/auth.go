package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/HAL94/fast-movie-reserve/internal/config"
)

const (
	contextKeyUserID = "auth.user_id"
	contextKeyRole   = "auth.role"

	RoleUser = "USER"
)

var (
	ErrMissingToken = errors.New("認証トークンがありません")
	ErrInvalidToken = errors.New("認証トークンが不正です")
)

// Claims はアクセストークンのクレーム。sub がユーザーID
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuth はクッキーまたは Authorization: Bearer から HS256 のトークンを検証する
// 検証に成功したらユーザーIDとロールをコンテキストに設定する
func JWTAuth(cfg config.AuthConfig) echo.MiddlewareFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(*jwt.Token) (any, error) {
		return []byte(cfg.JWTSecret), nil
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFromRequest(c, cfg.CookieName)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, ErrMissingToken.Error())
			}

			claims := &Claims{}
			if _, err := parser.ParseWithClaims(raw, claims, keyFunc); err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, ErrInvalidToken.Error()).SetInternal(err)
			}
			if claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, ErrInvalidToken.Error())
			}

			c.Set(contextKeyUserID, claims.Subject)
			c.Set(contextKeyRole, claims.Role)
			return next(c)
		}
	}
}

// RequireRole は指定ロールのユーザーのみ通す。JWTAuth の後に使う
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if Role(c) != role {
				return echo.NewHTTPError(http.StatusForbidden, "この操作を行う権限がありません")
			}
			return next(c)
		}
	}
}

func tokenFromRequest(c echo.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// UserID は認証済みユーザーのIDを返す。未認証なら空文字
func UserID(c echo.Context) string {
	id, _ := c.Get(contextKeyUserID).(string)
	return id
}

// Role は認証済みユーザーのロールを返す
func Role(c echo.Context) string {
	role, _ := c.Get(contextKeyRole).(string)
	return role
}

// SignToken はテストやローカル検証用にトークンを発行する
func SignToken(secret, userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
