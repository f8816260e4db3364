package fakeapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var (
	errInvalidCredentials = errors.New("Incorrect email or password")
	errInvalidToken       = errors.New("Could not validate credentials")
)

// low cost keeps test servers fast
const hashCost = bcrypt.MinCost

type authService struct {
	srv       *Server
	jwtSecret []byte
	jwtExpiry time.Duration
}

type jwtClaims struct {
	UserID string `json:"sub"`
	jwt.RegisteredClaims
}

func newAuthService(srv *Server, secret []byte, expiry time.Duration) *authService {
	return &authService{srv: srv, jwtSecret: secret, jwtExpiry: expiry}
}

func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), hashCost)
}

func checkPassword(hash []byte, password string) error {
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return errInvalidCredentials
	}
	return nil
}

// generateToken creates a signed token for userID
func (a *authService) generateToken(userID string) (string, int, error) {
	now := time.Now()
	claims := &jwtClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.jwtExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "quest-fakeapi",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}
	return signed, int(a.jwtExpiry.Seconds()), nil
}

// validateToken verifies a token and returns its user ID
func (a *authService) validateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return "", errInvalidToken
	}
	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", errInvalidToken
	}
	return claims.UserID, nil
}

// IssueToken signs a token for userID; tests use it to act as a user.
func (s *Server) IssueToken(userID string) (string, error) {
	tok, _, err := s.auth.generateToken(userID)
	return tok, err
}

// authenticate validates the bearer token and sets user_id
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortDetail(c, http.StatusUnauthorized, "Not authenticated")
			return
		}
		userID, err := s.auth.validateToken(parts[1])
		if err != nil {
			abortDetail(c, http.StatusUnauthorized, err.Error())
			return
		}
		s.mu.Lock()
		_, ok := s.state.users[userID]
		s.mu.Unlock()
		if !ok {
			abortDetail(c, http.StatusUnauthorized, errInvalidToken.Error())
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}
