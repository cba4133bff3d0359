// Package token implements issuing and verifying signed session tokens.
package token

import (
	"fmt"
	"strconv"
	"time"

	"inkwell/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuerName   = "inkwell-api"
	audienceName = "inkwell-client"
)

// Claims is the verified identity carried by a session token.
type Claims struct {
	UserID   uint
	Username string
	Role     models.Role
	JTI      string
}

// Issuer creates and validates HS256-signed session tokens. It is stateless;
// the signing secret comes from configuration.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer returns an Issuer signing with the given secret. Tokens expire
// after ttl.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret not configured")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}, nil
}

// Issue creates a signed token embedding the user's identity and role.
func (i *Issuer) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10), // Subject (user ID as string)
		"username": user.Username,                           // Username (cached in token)
		"role":     string(user.Role),                       // Role (cached in token)
		"iss":      issuerName,                              // Issuer
		"aud":      audienceName,                            // Audience
		"exp":      now.Add(i.ttl).Unix(),                   // Expiration
		"iat":      now.Unix(),                              // Issued at
		"nbf":      now.Unix(),                              // Not before
		"jti":      generateJTI(),                           // JWT ID (unique identifier)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify parses and validates a token string, returning the embedded claims.
// It fails when the signature, signing method, expiry, issuer, or audience is
// invalid.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signing method %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewUnauthorizedError("Invalid token claims")
	}

	if issuer, issuerOk := mapClaims["iss"].(string); !issuerOk || issuer != issuerName {
		return nil, models.NewUnauthorizedError("Invalid token issuer")
	}
	if audience, audienceOk := mapClaims["aud"].(string); !audienceOk || audience != audienceName {
		return nil, models.NewUnauthorizedError("Invalid token audience")
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return nil, models.NewUnauthorizedError("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid user ID in token")
	}

	claims := &Claims{UserID: uint(userID)}
	if username, ok := mapClaims["username"].(string); ok {
		claims.Username = username
	}
	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = models.Role(role)
	}
	if jti, ok := mapClaims["jti"].(string); ok {
		claims.JTI = jti
	}
	return claims, nil
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
