package service

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/MohamadAmiin/diet-app-just-project/internal/db"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrEmailExists 在注册邮箱已被占用时返回
	ErrEmailExists = errors.New("email already registered")
	// ErrInvalidCredentials 在邮箱或密码不匹配时返回
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrWeakPassword 在密码长度不足时返回
	ErrWeakPassword = errors.New("password must be at least 6 characters")
	// ErrInvalidEmail 在邮箱格式不合法时返回
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrUserNotFound 在指定用户不存在时返回
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidToken 在令牌解析或校验失败时返回
	ErrInvalidToken = errors.New("invalid token")
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// dummyHash 是预先算好的 bcrypt 哈希。登录时邮箱不存在也照常比对一次，
// 保持响应耗时恒定，避免通过时间差枚举已注册邮箱。
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

// AuthService 负责注册、登录与令牌签发/校验。
// 令牌为 HS256 JWT，sub 存用户 ID。
type AuthService struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
}

// NewAuthService 构造 AuthService
func NewAuthService(gdb *gorm.DB, secret string, ttl time.Duration) *AuthService {
	return &AuthService{db: gdb, secret: []byte(secret), ttl: ttl}
}

// Register 注册新账号并自动建立空白档案，返回用户与登录令牌
func (s *AuthService) Register(email, password string) (*db.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < 6 {
		return nil, "", ErrWeakPassword
	}

	var existing db.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, "", ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := db.User{Email: email, Password: string(hashed), Role: db.RoleUser}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&db.Profile{UserID: user.ID}).Error
	}); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// Login 校验邮箱密码并签发令牌
func (s *AuthService) Login(email, password string) (*db.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user db.User
	lookupErr := s.db.Where("email = ?", email).First(&user).Error

	// 邮箱未注册时也跑一次 bcrypt，保持耗时恒定
	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = user.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(password))

	if lookupErr != nil || compareErr != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// ChangePassword 校验当前密码后更新为新密码
func (s *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrWeakPassword
	}

	var user db.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.db.Model(&user).Update("password", string(hashed)).Error; err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// GetUser 根据 ID 获取用户
func (s *AuthService) GetUser(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// ListUsers 返回全部用户，仅供管理员接口使用
func (s *AuthService) ListUsers() ([]db.User, error) {
	var users []db.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// IssueToken 为用户签发 HS256 JWT
func (s *AuthService) IssueToken(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ParseToken 校验令牌并返回其中的用户 ID
func (s *AuthService) ParseToken(raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidToken
	}

	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseUint(subject, 10, 32)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return uint(id), nil
}
