// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"inkwell/internal/models"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 24 * time.Hour

// Claims is the JWT payload. Role capabilities travel as the isAdmin/isAuthor
// booleans existing clients expect; they are mapped to the Role enum when the
// token is verified.
type Claims struct {
	IsAdmin  bool `json:"isAdmin"`
	IsAuthor bool `json:"isAuthor"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies signed JWTs for the API.
type Tokens struct {
	secret []byte
}

// NewTokens creates a token codec signing with the given shared secret.
func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret)}
}

// Issue signs a token for the given user.
func (t *Tokens) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		IsAdmin:  user.IsAdmin(),
		IsAuthor: user.IsAuthor(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string, returning the actor it
// identifies.
func (t *Tokens) Verify(tokenString string) (Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Actor{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return Actor{}, errors.New("invalid token")
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Actor{}, fmt.Errorf("token subject: %w", err)
	}

	// Admin wins when both flags are set; legacy tokens could carry both.
	role := models.RoleReader
	switch {
	case claims.IsAdmin:
		role = models.RoleAdmin
	case claims.IsAuthor:
		role = models.RoleAuthor
	}

	return Actor{ID: id, Role: role}, nil
}
