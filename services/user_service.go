package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sports-event-platform/models"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

type UserListing struct {
	models.UserSummary
	Role models.Role `json:"role"`
}

// Search looks users up by name or email, optionally restricted to one role.
func (s *UserService) Search(ctx context.Context, query string, role models.Role, limit int) ([]UserListing, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if role != "" && !role.Valid() {
		return nil, invalid("role", "unknown role")
	}

	q := s.DB.WithContext(ctx).Model(&models.User{}).Order("email ASC").Limit(limit)
	if query = strings.ToLower(strings.TrimSpace(query)); query != "" {
		term := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", term, term)
	}
	if role != "" {
		q = q.Where("role = ?", role)
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	res := make([]UserListing, len(users))
	for i, u := range users {
		res[i] = UserListing{UserSummary: u.Summary(), Role: u.Role}
	}
	return res, nil
}

// SearchUsers serves GET /users?q=&role=&limit=
func (s *UserService) SearchUsers(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	users, err := s.Search(c.UserContext(), c.Query("q"), models.Role(strings.ToUpper(c.Query("role"))), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}
