package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile 用户资料，首次登录时创建，应用不做物理删除
type Profile struct {
	gorm.Model
	Email     string     `gorm:"size:100;not null;unique" json:"email"`
	Name      string     `gorm:"size:100" json:"name"`
	Phone     string     `gorm:"size:30" json:"phone"`
	Password  string     `gorm:"size:255;not null" json:"-"`
	LastLogin *time.Time `json:"lastLogin"`
}

// CredentialRequest 登录请求
type CredentialRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegistrationRequest 注册请求
type RegistrationRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Phone    string `json:"phone"`
}

// ProfileUpdateRequest 更新个人资料请求
type ProfileUpdateRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// ProfileResponse 用户响应
type ProfileResponse struct {
	ID        uint       `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin"`
}

// ToResponse 转换为响应
func (p *Profile) ToResponse() ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		Name:      p.Name,
		Phone:     p.Phone,
		CreatedAt: p.CreatedAt,
		LastLogin: p.LastLogin,
	}
}
