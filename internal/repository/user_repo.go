package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"homecrew/internal/domain"
)

type UserRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewUserRepository(db *gorm.DB, timeout time.Duration) *UserRepository {
	return &UserRepository{db: db, timeout: timeout}
}

type userModel struct {
	ID            string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	Name          string    `gorm:"column:name"`
	Email         string    `gorm:"column:email;not null;uniqueIndex"`
	Phone         *string   `gorm:"column:phone"`
	PasswordHash  string    `gorm:"column:password_hash;not null"`
	Role          string    `gorm:"column:role;not null"`
	EmailVerified bool      `gorm:"column:email_verified;not null"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	var phone string
	if m.Phone != nil {
		phone = *m.Phone
	}
	return &domain.User{
		ID:            m.ID,
		Name:          m.Name,
		Email:         m.Email,
		Phone:         phone,
		PasswordHash:  m.PasswordHash,
		Role:          domain.UserRole(m.Role),
		EmailVerified: m.EmailVerified,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	var phone *string
	if u.Phone != "" {
		v := u.Phone
		phone = &v
	}
	return userModel{
		ID:            u.ID,
		Name:          u.Name,
		Email:         normalizeEmail(u.Email),
		Phone:         phone,
		PasswordHash:  u.PasswordHash,
		Role:          string(u.Role),
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if u.ID == "" {
		u.ID = newID()
	}
	m := toUserModel(u)
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return storeErr("create user "+m.Email, err)
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var m userModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, storeErr("user "+id, err)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var m userModel
	if err := conn(ctx, r.db).Where("email = ?", normalizeEmail(email)).First(&m).Error; err != nil {
		return nil, storeErr("user "+email, err)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) MarkVerified(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tx := conn(ctx, r.db).Model(&userModel{}).Where("id = ?", id).Update("email_verified", true)
	if tx.Error != nil {
		return storeErr("verify user "+id, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tx := conn(ctx, r.db).Model(&userModel{}).Where("id = ?", id).Update("password_hash", hash)
	if tx.Error != nil {
		return storeErr("update password "+id, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	return nil
}
