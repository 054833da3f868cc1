package middleware

import (
	"crypto/rsa"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextClerkUserID is the gin context key the identity middleware sets.
const ContextClerkUserID = "clerkUserId"

var (
	keyOnce   sync.Once
	publicKey *rsa.PublicKey
)

func sessionKey() *rsa.PublicKey {
	keyOnce.Do(func() {
		pem := os.Getenv("CLERK_PEM_PUBLIC_KEY")
		if pem == "" {
			return
		}
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
		if err != nil {
			log.Printf("Invalid CLERK_PEM_PUBLIC_KEY, bearer identity disabled: %v", err)
			return
		}
		publicKey = key
	})
	return publicKey
}

// VerifySessionToken checks an identity-provider session token (RS256) and
// returns its subject, the external user id.
func VerifySessionToken(tokenString string, key *rsa.PublicKey) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid session token")
	}
	return claims.Subject, nil
}

// Identity extracts the caller's external user id from a bearer session
// token when one is supplied. Requests without a token pass through
// untouched; handlers then fall back to the clerkUserId the client sends
// in the body or query, which is how the original API worked. A token
// that is present but fails verification is rejected outright.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		key := sessionKey()
		if key == nil {
			// No verification key configured; ignore the header.
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid authorization header",
			})
			c.Abort()
			return
		}

		sub, err := VerifySessionToken(parts[1], key)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid session token",
			})
			c.Abort()
			return
		}

		c.Set(ContextClerkUserID, sub)
		c.Next()
	}
}
