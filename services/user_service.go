// services/user_service.go
package services

import (
	"strings"

	"skate-challenge-service/models"
	"skate-challenge-service/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/unidecode"
)

type UserService struct {
	Store store.Store
}

func NewUserService(s store.Store) *UserService {
	return &UserService{Store: s}
}

// GetAllUsers lists users. The optional q parameter matches usernames
// case- and accent-insensitively, so "jose" finds "José".
func (s *UserService) GetAllUsers(c *fiber.Ctx) error {
	users, err := s.Store.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	query := fold(c.Query("q", ""))
	if query == "" {
		return c.JSON(users)
	}

	matches := make([]models.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(fold(u.Username), query) {
			matches = append(matches, u)
		}
	}
	return c.JSON(matches)
}

func (s *UserService) GetUserByID(c *fiber.Ctx) error {
	user, err := s.Store.GetUser(c.UserContext(), pathID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func fold(s string) string {
	return strings.ToLower(unidecode.Unidecode(strings.TrimSpace(s)))
}
