package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 用户角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 定义了账号模型，密码保存 bcrypt 哈希
type User struct {
	gorm.Model
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"not null;default:user" json:"role"`
}

// EnsureAdmin 存在性检查：若提供的邮箱与密码均非空且不存在对应账号，
// 则创建一个 bcrypt 哈希的管理员账号，并附带一条空白档案。
func EnsureAdmin(email, password string) error {
	trimmedEmail := strings.ToLower(strings.TrimSpace(email))
	trimmedPassword := strings.TrimSpace(password)
	if trimmedEmail == "" || trimmedPassword == "" {
		return nil
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var existing User
	if err := DB.Where("email = ?", trimmedEmail).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		admin := User{Email: trimmedEmail, Password: string(hashed), Role: RoleAdmin}
		if err := DB.Create(&admin).Error; err != nil {
			return err
		}

		return DB.Create(&Profile{UserID: admin.ID}).Error
	}

	return nil
}
