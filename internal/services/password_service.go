package services

import (
	"golang.org/x/crypto/bcrypt"

	"userservice/internal/utils"
)

const saltLength = 4

type PasswordService interface {
	GenerateSalt() (string, error)
	HashPassword(password, salt string) (string, error)
	CheckPassword(password, salt, hash string) bool
}

type passwordService struct {
	cost int
}

func NewPasswordService(cost int) PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &passwordService{cost: cost}
}

func (s *passwordService) GenerateSalt() (string, error) {
	return utils.RandomAlphanumeric(saltLength)
}

// HashPassword hashes password+salt. The account salt is stored in its
// own column and re-appended at verify time; bcrypt's embedded salt is
// algorithm plumbing on top of that.
func (s *passwordService) HashPassword(password, salt string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password+salt), s.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *passwordService) CheckPassword(password, salt, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password+salt)) == nil
}
