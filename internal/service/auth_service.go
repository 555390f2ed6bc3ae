package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-erp-admin/internal/model"
	"go-erp-admin/internal/repository"
	"go-erp-admin/pkg/jwt"
	"go-erp-admin/pkg/session"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, sessionID string) error
	ResolveSession(ctx context.Context, token string) (*model.User, string, error)
	ResetPassword(ctx context.Context, req *ResetPasswordRequest) error
}

type LoginRequest struct {
	Username  string `json:"username" form:"username"`
	Password  string `json:"password" form:"password"`
	IP        string `json:"-" form:"-"`
	UserAgent string `json:"-" form:"-"`
}

type ResetPasswordRequest struct {
	Username    string `json:"username" form:"username" validate:"required"`
	OldPassword string `json:"old_password" form:"old_password" validate:"required"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required"`
}

type LoginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	User      model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	sessions *session.Store
	secret   []byte
	log      *logrus.Logger
}

func NewAuthService(userRepo repository.UserRepository, sessions *session.Store, secret []byte, log *logrus.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		sessions: sessions,
		secret:   secret,
		log:      log,
	}
}

var (
	decoyOnce sync.Once
	decoyHash []byte
)

// burnCompare spends one bcrypt comparison so unknown usernames cost as much as wrong passwords.
func burnCompare(password string) {
	decoyOnce.Do(func() {
		decoyHash, _ = bcrypt.GenerateFromPassword([]byte("decoy-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(decoyHash, []byte(password))
}

// authenticate returns the active user matching the credentials or ErrInvalidCredentials.
func (s *authService) authenticate(username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if !repository.IsNotFound(err) {
			return nil, fmt.Errorf("find user: %w", err)
		}
		burnCompare(password)
		return nil, ErrInvalidCredentials
	}
	if !user.CheckPassword(password) || !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.log.WithFields(logrus.Fields{"username": req.Username, "ip": req.IP}).Warn("failed login")
		}
		return nil, err
	}

	sess, err := s.sessions.Create(ctx, user.ID, user.Username, req.IP, req.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	token, err := jwt.GenerateToken(s.secret, user.ID, user.Username, sess.ID, s.sessions.TTL())
	if err != nil {
		_ = s.sessions.Delete(ctx, sess.ID)
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user logged in")
	return &LoginResponse{
		Token:     token,
		ExpiresAt: sess.CreatedAt.Add(s.sessions.TTL()),
		User:      user.ToResponse(),
	}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ResolveSession maps a token to its live session and active user.
func (s *authService) ResolveSession(ctx context.Context, token string) (*model.User, string, error) {
	claims, err := jwt.ValidateToken(s.secret, token)
	if err != nil {
		return nil, "", ErrUnauthenticated
	}
	sess, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, "", ErrUnauthenticated
		}
		return nil, "", fmt.Errorf("load session: %w", err)
	}
	if sess.UserID != claims.UserID {
		return nil, "", ErrUnauthenticated
	}

	user, err := s.userRepo.FindByID(sess.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, "", ErrUnauthenticated
		}
		return nil, "", fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		return nil, "", ErrUnauthenticated
	}
	return user, sess.ID, nil
}

func (s *authService) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	if len(req.NewPassword) < minPasswordLength {
		return invalid("new_password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	user, err := s.authenticate(req.Username, req.OldPassword)
	if err != nil {
		return err
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(user.ID, user.Password); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.log.WithField("username", user.Username).Info("password changed")
	return nil
}
