package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Martyparty1988/Workmm/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// Claims is the identity the auth provider encodes into a token. The
// service trusts these values and never authenticates users itself.
type Claims struct {
	UserID   uint   `json:"user_id"`
	FamilyID string `json:"family_id"`
	Person   string `json:"person"`
	jwt.RegisteredClaims
}

// InitJWT installs the verification secret.
func InitJWT(cfg *config.Config) {
	jwtSecret = []byte(cfg.JWT.Secret)
}

// GenerateToken issues a token carrying the given identity. Used by tests
// and operational tooling; production tokens come from the auth provider.
func GenerateToken(userID uint, familyID, person string, expire time.Duration) (string, error) {
	claims := Claims{
		UserID:   userID,
		FamilyID: familyID,
		Person:   person,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expire)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseToken verifies the token and returns its claims.
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("neočekávaná podpisová metoda")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("neplatný token")
	}
	return claims, nil
}

// JWTAuth rejects requests without a valid bearer token and stores the
// identity in the context.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "Uživatel není přihlášen"})
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := ParseToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "Neplatný token"})
			c.Abort()
			return
		}
		c.Set("userID", claims.UserID)
		c.Set("familyID", claims.FamilyID)
		c.Set("person", claims.Person)
		c.Next()
	}
}

// GetCurrentUserID returns the authenticated user id from the context.
func GetCurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// GetFamilyID returns the authenticated family id from the context.
func GetFamilyID(c *gin.Context) string {
	if v, ok := c.Get("familyID"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// GetPerson returns the authenticated person from the context.
func GetPerson(c *gin.Context) string {
	if v, ok := c.Get("person"); ok {
		if p, ok := v.(string); ok {
			return p
		}
	}
	return ""
}
