package dto

import "github.com/SscSPs/knowledge_hub/internal/core/domain"

// TokenPairResponse represents the response for a successful login or token renewal.
type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func ToTokenPairResponse(pair *domain.TokenPair) TokenPairResponse {
	return TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
}
