package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"lobby-server/config"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// JWTService 提供 JWT 生成与校验能力
// 使用对称密钥 HS256

type JWTService struct {
	secretKey   []byte        // 对称密钥
	issuer      string        // 签发者
	expireAfter time.Duration // 默认过期时间
}

// Claims 令牌载荷：用户ID、用户名、签发时的积分
// Subject 同时存放用户ID的字符串形式

type Claims struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	jwtv5.RegisteredClaims
}

// NewJWTService 创建 JWT 服务
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secretKey:   []byte(cfg.Secret),
		issuer:      cfg.Issuer,
		expireAfter: cfg.ExpireTime,
	}
}

// GenerateToken 使用默认过期时间生成访问令牌
func (s *JWTService) GenerateToken(userID uint, username string, rating int) (string, error) {
	return s.GenerateTokenWithExpiry(userID, username, rating, s.expireAfter)
}

// GenerateTokenWithExpiry 生成指定有效期的访问令牌
func (s *JWTService) GenerateTokenWithExpiry(userID uint, username string, rating int, expireAfter time.Duration) (string, error) {
	if userID == 0 {
		return "", errors.New("userID is required")
	}

	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		Rating:   rating,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwtv5.NewNumericDate(now),
			NotBefore: jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(expireAfter)),
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token failed: %w", err)
	}
	return signed, nil
}

// ValidateToken 校验并解析令牌
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token is empty")
	}
	claims := &Claims{}
	parsedToken, err := jwtv5.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwtv5.Token) (interface{}, error) {
			// 验证签名方法
			if token.Method != jwtv5.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secretKey, nil
		},
		jwtv5.WithIssuer(s.issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token failed: %w", err)
	}
	if !parsedToken.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
