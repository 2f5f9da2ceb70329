package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/nicoxroll/tecno-car-sub000/internal/config"
	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/model"
	"github.com/nicoxroll/tecno-car-sub000/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RolAdmin is the only role; every admin route requires it.
const RolAdmin = "administrador"

// Token kinds carried in the "typ" claim.
const (
	TokenAcceso  = "access"
	TokenRefresh = "refresh"
)

const bcryptCost = 12

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	// AsegurarAdmin creates the admin user or resets its password.
	AsegurarAdmin(ctx context.Context, username, nombre, password string) (*dto.UsuarioResponse, error)
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Msg("auth: user lookup failed")
		}
		return nil, ErrCredenciales
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredenciales
	}
	return s.emitirTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims, err := ParseToken(s.cfg.JWTSecret, refreshToken)
	if err != nil || claims["typ"] != TokenRefresh {
		return nil, &detalleError{msg: "refresh token invalido o expirado", causa: ErrCredenciales}
	}
	userIDStr, _ := claims["user_id"].(string)
	uid, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return nil, &detalleError{msg: "token mal formado", causa: ErrCredenciales}
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Activo {
		return nil, &detalleError{msg: "usuario no encontrado o inactivo", causa: ErrCredenciales}
	}
	return s.emitirTokens(user)
}

func (s *authService) AsegurarAdmin(ctx context.Context, username, nombre, password string) (*dto.UsuarioResponse, error) {
	if username == "" || len(password) < 8 {
		return nil, validacion("usuario obligatorio y contraseña de al menos 8 caracteres")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &model.Usuario{
			Username:     username,
			Nombre:       nombre,
			PasswordHash: string(hash),
			Rol:          RolAdmin,
			Activo:       true,
		}
		if err := s.repo.Create(ctx, user); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		user.PasswordHash = string(hash)
		user.Rol = RolAdmin
		if nombre != "" {
			user.Nombre = nombre
		}
		if err := s.repo.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	resp := mapUsuario(user)
	return &resp, nil
}

func (s *authService) emitirTokens(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, TokenAcceso, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, TokenRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         mapUsuario(user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, tipo string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  strconv.FormatInt(user.ID, 10),
		"username": user.Username,
		"rol":      user.Rol,
		"typ":      tipo,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ParseToken verifies an HS256 token and returns its claims.
func ParseToken(secret, raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("token invalido o expirado")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("claims invalidos")
	}
	return claims, nil
}

func mapUsuario(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:       u.ID,
		Username: u.Username,
		Nombre:   u.Nombre,
		Email:    u.Email,
		Rol:      u.Rol,
	}
}
