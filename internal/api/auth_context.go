package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// authenticateRequest validates the Authorization header and returns the
// user ID.
func (s *Server) authenticateRequest(authHeader string) (string, error) {
	if authHeader == "" {
		return "", huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", huma.Error401Unauthorized("Invalid authorization header format")
	}

	claims, err := s.services.Auth.VerifyToken(parts[1])
	if err != nil {
		return "", huma.Error401Unauthorized("Invalid or expired token")
	}

	return claims.UserID, nil
}

// maybeUserID resolves the Authorization header to a user ID for endpoints
// where authentication is optional. Missing or invalid tokens yield "".
func (s *Server) maybeUserID(authHeader string) string {
	userID, err := s.authenticateRequest(authHeader)
	if err != nil {
		return ""
	}
	return userID
}
