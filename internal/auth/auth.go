package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shenikar/disaster_response_system/internal/config"
	"github.com/shenikar/disaster_response_system/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// TokenDenylist определяет контракт для списка отозванных токенов
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthService определяет контракт управления сессиями.
// Машина состояний: Unauthenticated -> CitizenSession | AdminSession -> Unauthenticated.
type AuthService interface {
	Login(ctx context.Context, role models.UserRole, name, password string) (*models.User, string, error)
	Logout(ctx context.Context, tokenString string) error
	ParseToken(ctx context.Context, tokenString string) (*models.User, error)
}

type authService struct {
	cfg      *config.Config
	logger   *logrus.Logger
	denylist TokenDenylist
}

func NewAuthService(cfg *config.Config, logger *logrus.Logger, denylist TokenDenylist) AuthService {
	return &authService{
		cfg:      cfg,
		logger:   logger,
		denylist: denylist,
	}
}

// HasPermission - чистая функция от роли и статической таблицы разрешений.
// Неизвестная или пустая роль не имеет разрешений.
func HasPermission(role models.UserRole, permission string) bool {
	for _, p := range models.Permissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// Login создает сессию. Гражданин входит всегда и получает эфемерную идентичность;
// администратор - только при совпадении пароля с настроенным bcrypt-хэшем,
// иначе состояние остается Unauthenticated и возвращается ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, role models.UserRole, name, password string) (*models.User, string, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "Login",
		"role":    role,
	})

	var user *models.User
	switch role {
	case models.RoleAdmin:
		if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)); err != nil {
			log.Warn("Admin login rejected: wrong credential")
			return nil, "", models.ErrInvalidCredentials
		}
		user = &models.User{
			ID:         "admin-01",
			Name:       "Command Officer",
			Role:       models.RoleAdmin,
			Department: "Central Dispatch",
		}
	case models.RoleCitizen:
		citizenName := name
		if citizenName == "" {
			citizenName = "Concerned Citizen"
		}
		user = &models.User{
			ID:   fmt.Sprintf("citizen-%s", uuid.New().String()[:8]),
			Name: citizenName,
			Role: models.RoleCitizen,
		}
	default:
		log.Warnf("Login attempted with unknown role: %s", role)
		return nil, "", models.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		log.WithError(err).Error("Failed to sign session token")
		return nil, "", fmt.Errorf("auth: could not sign token: %w", err)
	}

	log.WithField("user_id", user.ID).Info("Session created")
	return user, token, nil
}

// Logout отзывает токен: его jti попадает в denylist до естественного истечения
func (s *authService) Logout(ctx context.Context, tokenString string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "Logout",
	})

	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return models.ErrInvalidToken
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return models.ErrInvalidToken
	}

	ttl := s.cfg.JWTTTL
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		ttl = time.Until(exp.Time)
	}
	if ttl <= 0 {
		// Токен уже истек, отзывать нечего
		return nil
	}

	if err := s.denylist.Revoke(ctx, jti, ttl); err != nil {
		log.WithError(err).Error("Failed to revoke token")
		return fmt.Errorf("auth: could not revoke token: %w", err)
	}

	log.Info("Session revoked")
	return nil
}

// ParseToken проверяет подпись, срок действия и denylist, возвращая идентичность сессии
func (s *authService) ParseToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return nil, models.ErrInvalidToken
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil, models.ErrInvalidToken
	}
	revoked, err := s.denylist.IsRevoked(ctx, jti)
	if err != nil {
		return nil, fmt.Errorf("auth: denylist check failed: %w", err)
	}
	if revoked {
		return nil, models.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	roleStr, _ := claims["role"].(string)
	name, _ := claims["name"].(string)
	department, _ := claims["department"].(string)
	if sub == "" || roleStr == "" {
		return nil, models.ErrInvalidToken
	}

	return &models.User{
		ID:         sub,
		Name:       name,
		Role:       models.UserRole(roleStr),
		Department: department,
	}, nil
}

func (s *authService) parseClaims(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, models.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        user.ID,
		"name":       user.Name,
		"role":       string(user.Role),
		"department": user.Department,
		"jti":        uuid.New().String(),
		"exp":        now.Add(s.cfg.JWTTTL).Unix(),
		"iat":        now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
