package api

import (
	"crypto/rand"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/CharGoon26/dwdex-battles/internal/constants"
)

const sessionTTL = 24 * time.Hour

const (
	ctxKeyParticipantID = "participantID"
	ctxKeyDisplayName   = "displayName"
)

type sessionClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

var devSecret []byte

func sessionSecret() ([]byte, error) {
	if secret := os.Getenv(constants.EnvSessionSecret); secret != "" {
		return []byte(secret), nil
	}
	// In-memory secret for local development.
	if len(devSecret) == 0 {
		devSecret = make([]byte, 32)
		if _, err := rand.Read(devSecret); err != nil {
			return nil, errors.New("failed to generate dev session secret")
		}
	}
	return devSecret, nil
}

func issueSessionToken(participantID, displayName string) (string, error) {
	secret, err := sessionSecret()
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := sessionClaims{
		Name: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   participantID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseSessionToken(token string) (*sessionClaims, error) {
	secret, err := sessionSecret()
	if err != nil {
		return nil, err
	}
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, errors.New("invalid session token")
	}
	return &claims, nil
}

// AuthRequired validates the bearer token and injects the participant
// identity into the request context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(constants.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, constants.BearerPrefix)
		if !ok || token == "" {
			// Websocket clients cannot set headers from the browser.
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		claims, err := parseSessionToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
			return
		}
		c.Set(ctxKeyParticipantID, claims.Subject)
		c.Set(ctxKeyDisplayName, claims.Name)
		c.Next()
	}
}

// identity pulls the authenticated participant out of the context.
func identity(c *gin.Context) (id, name string) {
	if v, ok := c.Get(ctxKeyParticipantID); ok {
		id, _ = v.(string)
	}
	if v, ok := c.Get(ctxKeyDisplayName); ok {
		name, _ = v.(string)
	}
	return id, name
}
