package models

import "github.com/golang-jwt/jwt/v5"

// AdminClaims is the payload of tokens issued by the identity provider.
type AdminClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Actor returns the email recorded in activity logs.
func (c *AdminClaims) Actor() string {
	if c == nil {
		return "anonymous"
	}
	return c.Email
}
