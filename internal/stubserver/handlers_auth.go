package stubserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/podbrief/podbrief/internal/models"
)

const userContextKey = "stub_user"

// hashPassword is deliberately weak: the stub holds throwaway test
// credentials only.
func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// seedUsers creates the configured accounts at startup.
func (s *Server) seedUsers(users map[string]string) error {
	ctx := context.Background()
	for email, password := range users {
		existing, err := s.store.GetUserByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		user := &UserRecord{
			ID:       uuid.NewString(),
			Email:    email,
			Password: hashPassword(password),
			Role:     "user",
		}
		if err := s.store.CreateUser(ctx, user); err != nil {
			return err
		}
		log.Printf("[INFO] Seeded stub user %s", email)
	}
	return nil
}

// requireUser authenticates the bearer token and stores the user in the
// request context.
func (s *Server) requireUser(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if header == "" || token == header {
		errorJSON(c, http.StatusUnauthorized, "Authentication required")
		c.Abort()
		return
	}

	user, err := s.store.GetUserByToken(c.Request.Context(), token)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to validate token")
		c.Abort()
		return
	}
	if user == nil {
		errorJSON(c, http.StatusUnauthorized, "Invalid token")
		c.Abort()
		return
	}

	c.Set(userContextKey, user)
	c.Next()
}

func currentUser(c *gin.Context) *UserRecord {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	return value.(*UserRecord)
}

func (s *Server) issueToken(c *gin.Context, user *UserRecord) {
	token := uuid.NewString()
	record := &TokenRecord{Token: token, UserID: user.ID, CreatedAt: time.Now().UTC()}
	if err := s.store.SaveToken(c.Request.Context(), record); err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		Token: token,
		User: models.User{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
		},
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to look up user")
		return
	}
	if user == nil || user.Password != hashPassword(req.Password) {
		errorJSON(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	s.issueToken(c, user)
}

func (s *Server) handleSignup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		errorJSON(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	existing, err := s.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to look up user")
		return
	}
	if existing != nil {
		errorJSON(c, http.StatusBadRequest, "Email already registered")
		return
	}

	user := &UserRecord{
		ID:       uuid.NewString(),
		Email:    req.Email,
		Password: hashPassword(req.Password),
		Name:     req.Name,
		Role:     "user",
	}
	if err := s.store.CreateUser(c.Request.Context(), user); err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	s.issueToken(c, user)
}

// handleGoogleAuth accepts any non-empty ID token and derives a synthetic
// account from it. Real token verification belongs to the production
// backend, not the stub.
func (s *Server) handleGoogleAuth(c *gin.Context) {
	var req models.GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IDToken == "" {
		errorJSON(c, http.StatusUnauthorized, "Invalid Google token")
		return
	}

	email := "google-" + hashPassword(req.IDToken)[:12] + "@example.com"
	user, err := s.store.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to look up user")
		return
	}
	if user == nil {
		user = &UserRecord{
			ID:    uuid.NewString(),
			Email: email,
			Role:  "user",
		}
		if err := s.store.CreateUser(c.Request.Context(), user); err != nil {
			errorJSON(c, http.StatusInternalServerError, "Failed to create user")
			return
		}
	}

	s.issueToken(c, user)
}

func (s *Server) handleMe(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, models.User{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	})
}
