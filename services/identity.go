package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sports-event-platform/models"
)

// RoleReusePolicy decides what happens when an existing account is reused
// for a role it does not hold.
type RoleReusePolicy string

const (
	// RoleReuseKeep returns the existing account unchanged.
	RoleReuseKeep RoleReusePolicy = "reuse"
	// RoleReuseReject refuses to bind an account holding a different role.
	RoleReuseReject RoleReusePolicy = "reject"
)

func ParseRoleReusePolicy(s string) (RoleReusePolicy, error) {
	switch RoleReusePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleReuseKeep:
		return RoleReuseKeep, nil
	case RoleReuseReject:
		return RoleReuseReject, nil
	}
	return "", invalid("ROLE_REUSE_POLICY", "must be 'reuse' or 'reject'")
}

type IdentityService struct {
	DB         *gorm.DB
	Policy     RoleReusePolicy
	BcryptCost int
}

func NewIdentityService(db *gorm.DB, policy RoleReusePolicy, bcryptCost int) *IdentityService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if policy == "" {
		policy = RoleReuseKeep
	}
	return &IdentityService{DB: db, Policy: policy, BcryptCost: bcryptCost}
}

type ResolveUserInput struct {
	Email    string      `validate:"required,email"`
	Role     models.Role `validate:"required,oneof=ADMIN INCHARGE"`
	Name     string
	Password string
}

// ResolveOrCreate returns the id of the account registered under in.Email,
// creating it with in.Role when none exists. Creating requires a password.
//
// With a password the insert is attempted first and a uniqueness conflict is
// resolved by re-reading, so two concurrent calls for a new email end up
// with the same account.
func (s *IdentityService) ResolveOrCreate(ctx context.Context, in ResolveUserInput) (string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateInput(in); err != nil {
		return "", err
	}
	db := s.DB.WithContext(ctx)

	if in.Password == "" {
		existing, err := s.findByEmail(db, in.Email)
		if errors.Is(err, ErrNotFound) {
			return "", ErrMissingCredential
		}
		if err != nil {
			return "", err
		}
		return s.reuse(existing, in.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.BcryptCost)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         in.Role,
	}
	err = translateStoreError(db.Create(&user).Error)
	if err == nil {
		zap.L().Info("[IDENTITY] user created",
			zap.String("user_id", user.ID),
			zap.String("email", user.Email),
			zap.String("role", string(user.Role)),
		)
		return user.ID, nil
	}
	if !errors.Is(err, ErrConflict) {
		return "", err
	}

	existing, rerr := s.findByEmail(db, in.Email)
	if errors.Is(rerr, ErrNotFound) {
		// The conflicting row vanished between insert and re-read.
		return "", err
	}
	if rerr != nil {
		return "", rerr
	}
	return s.reuse(existing, in.Role)
}

func (s *IdentityService) reuse(u models.User, requested models.Role) (string, error) {
	if u.Role != requested && s.Policy == RoleReuseReject {
		return "", invalid("role", "account "+u.Email+" already holds role "+string(u.Role))
	}
	return u.ID, nil
}

func (s *IdentityService) findByEmail(db *gorm.DB, email string) (models.User, error) {
	var u models.User
	if err := db.Where("email = ?", email).First(&u).Error; err != nil {
		return u, translateStoreError(err)
	}
	return u, nil
}
