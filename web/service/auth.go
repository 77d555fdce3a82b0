package service

import (
	"time"

	"taskman/database"
	"taskman/database/model"
	"taskman/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthService issues, validates and revokes session tokens. The signing
// secret is fixed at construction and never changes while the process runs.
type AuthService struct {
	secret []byte

	userService UserService
}

func NewAuthService(secret string) *AuthService {
	return &AuthService{secret: []byte(secret)}
}

type sessionClaims struct {
	UserId string `json:"userId"`
	jwt.RegisteredClaims
}

// IssueToken signs a new session token for the user and appends it to the
// user's token list. The jti claim makes every issued token distinct, even
// for back-to-back logins within the same second.
func (s *AuthService) IssueToken(userId string) (string, error) {
	claims := &sessionClaims{
		UserId: userId,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
			ID:       uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}

	token := &model.Token{
		UserId: userId,
		Token:  signed,
	}
	if err := database.GetDB().Create(token).Error; err != nil {
		return "", err
	}
	return signed, nil
}

// ValidateToken verifies the signature, then requires the exact token
// string to still be present in the decoded user's token list. The list is
// the authoritative revocation mechanism: a revoked token fails here even
// though its signature is still valid.
func (s *AuthService) ValidateToken(tokenStr string) (*model.User, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid || claims.UserId == "" {
		return nil, ErrInvalidToken
	}

	db := database.GetDB()
	stored := &model.Token{}
	err = db.Where("user_id = ? AND token = ?", claims.UserId, tokenStr).
		First(stored).
		Error
	if database.IsNotFound(err) {
		return nil, ErrInvalidToken
	} else if err != nil {
		logger.Warning("token lookup err:", err)
		return nil, err
	}

	user, err := s.userService.GetUser(claims.UserId)
	if err == ErrNotFound {
		return nil, ErrInvalidToken
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// RevokeToken removes one session from the user's token list. Revoking a
// token that is already gone is not an error.
func (s *AuthService) RevokeToken(userId, tokenStr string) error {
	return database.GetDB().
		Where("user_id = ? AND token = ?", userId, tokenStr).
		Delete(&model.Token{}).
		Error
}

// RevokeAllTokens logs the user out everywhere.
func (s *AuthService) RevokeAllTokens(userId string) error {
	return database.GetDB().
		Where("user_id = ?", userId).
		Delete(&model.Token{}).
		Error
}
