package auth

import (
	"context"
	"errors"
	"time"

	"github.com/konmin123/TopBlogPosts/internal/db"
	"github.com/konmin123/TopBlogPosts/internal/shared/forms"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 7 * 24 * time.Hour

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "session"

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	secret []byte
	db     db.Querier
	redis  *redis.Client
}

type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewService(secret string, q db.Querier, redisClient *redis.Client) *Service {
	return &Service{
		secret: []byte(secret),
		db:     q,
		redis:  redisClient,
	}
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (User, map[string]string, error) {
	if fieldErrs := forms.Validate(req); fieldErrs != nil {
		return User{}, fieldErrs, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, nil, err
	}

	user := User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, username, email, password_hash, first_name, last_name)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at
	`, user.ID, user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName)
	if err := row.Scan(&user.CreatedAt); err != nil {
		return User{}, nil, err
	}
	return user, nil, nil
}

func (s *Service) Authenticate(ctx context.Context, req LoginRequest) (User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, username, email, password_hash, first_name, last_name, created_at
		FROM users WHERE username = $1
	`, req.Username)

	var user User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.CreatedAt); err != nil {
		return User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// StartSession signs a session token for the user and registers it in Redis
// so that logout can revoke it before expiry.
func (s *Service) StartSession(ctx context.Context, user User) (string, error) {
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, sessionKey(claims.ID), user.ID, sessionTTL).Err(); err != nil {
			return "", err
		}
	}
	return token, nil
}

// ResolveSession parses and verifies a session token. With Redis configured
// a revoked token resolves to an error even when its signature is valid.
func (s *Service) ResolveSession(ctx context.Context, token string) (Claims, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return Claims{}, err
	}

	if s.redis != nil {
		if err := s.redis.Get(ctx, sessionKey(claims.ID)).Err(); err != nil {
			return Claims{}, errors.New("session revoked")
		}
	}
	return *claims, nil
}

func (s *Service) EndSession(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return err
	}
	if s.redis != nil {
		return s.redis.Del(ctx, sessionKey(claims.ID)).Err()
	}
	return nil
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

func sessionKey(id string) string {
	return "session:" + id
}
