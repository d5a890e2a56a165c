package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
	"github.com/user/movieshelf/internal/apperr"
	"github.com/user/movieshelf/internal/model"
)

// TokenTTL 会话令牌有效期
const TokenTTL = time.Hour

// ErrConfiguration is returned when the issuer lacks its signing key,
// issuer or audience.
var ErrConfiguration = apperr.Configuration("token signing key, issuer and audience must be configured")

// Claims JWT 声明
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// TokenIssuer 签发并校验 HS256 会话令牌
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

// NewTokenIssuer 创建令牌签发器
func NewTokenIssuer(secret, issuer, audience string) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
}

// WithClock 替换时间来源（测试用）
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	t.now = now
	return t
}

func (t *TokenIssuer) configured() bool {
	return len(t.secret) > 0 && t.issuer != "" && t.audience != ""
}

// Issue 为用户生成令牌，有效期一小时
func (t *TokenIssuer) Issue(user *model.User) (string, error) {
	if !t.configured() {
		return "", ErrConfiguration
	}

	now := t.now()
	claims := &Claims{
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", oops.In("auth").Wrapf(err, "sign token")
	}
	return signed, nil
}

// Verify 校验签名、签发者、受众和过期时间，不留时钟容差
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	if !t.configured() {
		return nil, ErrConfiguration
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(0),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
