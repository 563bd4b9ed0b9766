package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mperez230-ship-it/MiniBanco/shared/models"
)

const (
	actorIDKey   = "userId"
	actorRoleKey = "role"
)

type Claims struct {
	UserID string      `json:"userId"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies the HS256 tokens handed out at login.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("JWT secret is not set")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}, nil
}

func (t *Tokens) Issue(actor models.Actor) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: actor.ID,
		Role:   actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}

func (t *Tokens) Parse(tokenString string) (models.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return models.Actor{}, errors.New("invalid or expired token")
	}
	if claims.UserID == "" {
		return models.Actor{}, errors.New("token carries no user")
	}
	return models.Actor{ID: claims.UserID, Role: claims.Role}, nil
}

// AuthMiddleware requires an actor. A bearer token always wins; the legacy
// ?userId=&role= parameters are read only when trustDeclared is set and no
// Authorization header was sent.
func AuthMiddleware(tokens *Tokens, trustDeclared bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok, err := resolveActor(c, tokens, trustDeclared)
		if err != nil {
			RespondWithError(c, http.StatusUnauthorized, err.Error())
			c.Abort()
			return
		}
		if !ok {
			RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}
		setActor(c, actor)
		c.Next()
	}
}

// OptionalAuth attaches an actor when one is present and otherwise lets the
// request through anonymously. A malformed token is still rejected.
func OptionalAuth(tokens *Tokens, trustDeclared bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok, err := resolveActor(c, tokens, trustDeclared)
		if err != nil {
			RespondWithError(c, http.StatusUnauthorized, err.Error())
			c.Abort()
			return
		}
		if ok {
			setActor(c, actor)
		}
		c.Next()
	}
}

func resolveActor(c *gin.Context, tokens *Tokens, trustDeclared bool) (models.Actor, bool, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return models.Actor{}, false, errors.New("Invalid authorization header format")
		}
		actor, err := tokens.Parse(parts[1])
		if err != nil {
			return models.Actor{}, false, errors.New("Invalid or expired token")
		}
		return actor, true, nil
	}
	if trustDeclared {
		if id := c.Query("userId"); id != "" {
			return models.Actor{ID: id, Role: models.Role(c.Query("role"))}, true, nil
		}
	}
	return models.Actor{}, false, nil
}

func setActor(c *gin.Context, actor models.Actor) {
	c.Set(actorIDKey, actor.ID)
	c.Set(actorRoleKey, actor.Role)
}

// GetActor returns the actor attached by AuthMiddleware or OptionalAuth.
func GetActor(c *gin.Context) (models.Actor, bool) {
	id, exists := c.Get(actorIDKey)
	if !exists {
		return models.Actor{}, false
	}
	actor := models.Actor{ID: id.(string)}
	if role, ok := c.Get(actorRoleKey); ok {
		actor.Role, _ = role.(models.Role)
	}
	return actor, true
}
