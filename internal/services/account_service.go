package services

import (
	"fmt"
	"log"
	"time"

	"userservice/internal/models"
	"userservice/internal/repositories"
	"userservice/internal/utils"
)

const resetTokenLength = 32

// AccountService is the account lifecycle engine. Every operation
// validates its DTO first, then touches storage, then crypto, and
// notifies by email only after a committed transaction.
type AccountService interface {
	SignUp(data models.SignUpDTO) error
	SignUpWithoutPassword(data models.SignUpWithoutPasswordDTO) error
	SignIn(data models.SignInDTO) (string, error)
	Authenticate(data models.AuthenticateDTO) error
	ForgotMyPassword(data models.ForgotMyPasswordDTO) error
	UpdatePassword(data models.UpdatePasswordDTO) error
	IdentityCheck(data models.IdentityCheckDTO) ([]models.Identity, error)
}

type accountService struct {
	repo              repositories.AccountRepository
	passwords         PasswordService
	tokens            TokenService
	emails            EmailService
	createPasswordURL string
}

func NewAccountService(
	repo repositories.AccountRepository,
	passwords PasswordService,
	tokens TokenService,
	emails EmailService,
	createPasswordURL string,
) AccountService {
	return &accountService{
		repo:              repo,
		passwords:         passwords,
		tokens:            tokens,
		emails:            emails,
		createPasswordURL: createPasswordURL,
	}
}

func (s *accountService) SignUp(data models.SignUpDTO) error {
	if err := data.Validate(); err != nil {
		return models.NewValidationError(err)
	}

	salt, err := s.passwords.GenerateSalt()
	if err != nil {
		return models.NewApplicationError(err.Error())
	}
	hash, err := s.passwords.HashPassword(data.Password, salt)
	if err != nil {
		return models.NewApplicationError(err.Error())
	}

	account := &models.Account{
		Username:     data.Username,
		Email:        data.Email,
		Salt:         &salt,
		PasswordHash: &hash,
	}
	if err := s.repo.Insert(account); err != nil {
		return models.NewDatabaseError(err)
	}

	s.notify(data.Email, data.Username, "Your sign up was successful.")
	return nil
}

func (s *accountService) SignUpWithoutPassword(data models.SignUpWithoutPasswordDTO) error {
	if err := data.Validate(); err != nil {
		return models.NewValidationError(err)
	}

	token, err := s.newResetToken()
	if err != nil {
		return models.NewApplicationError(err.Error())
	}
	if _, err := s.repo.CreateWithResetToken(data.Username, data.Email, token); err != nil {
		return models.NewDatabaseError(err)
	}

	url := fmt.Sprintf("%s?token=%s", s.createPasswordURL, token)
	message := fmt.Sprintf("Your sign up is almost complete. You just need to <a target=\"_blank\" href=%q>create a password.</a>", url)
	s.notify(data.Email, data.Username, message)
	return nil
}

func (s *accountService) SignIn(data models.SignInDTO) (string, error) {
	if err := data.Validate(); err != nil {
		return "", models.NewValidationError(err)
	}

	account, err := s.repo.FindEnabledByIdentity(data.UsernameOrEmail)
	if err != nil {
		return "", models.NewDatabaseError(err)
	}
	if account == nil {
		return "", models.NewApplicationError("Incorrect username.")
	}

	salt := ""
	if account.Salt != nil {
		salt = *account.Salt
	}
	hash := ""
	if account.PasswordHash != nil {
		hash = *account.PasswordHash
	}
	if !s.passwords.CheckPassword(data.Password, salt, hash) {
		return "", models.NewApplicationError("Incorrect password.")
	}

	return s.tokens.Issue(account.Username, account.Email, time.Now())
}

func (s *accountService) Authenticate(data models.AuthenticateDTO) error {
	if err := data.Validate(); err != nil {
		return models.NewValidationError(err)
	}
	return s.tokens.Verify(data.Token, time.Now())
}

func (s *accountService) ForgotMyPassword(data models.ForgotMyPasswordDTO) error {
	if err := data.Validate(); err != nil {
		return models.NewValidationError(err)
	}

	account, err := s.repo.FindByIdentity(data.UsernameOrEmail)
	if err != nil {
		return models.NewDatabaseError(err)
	}
	if account == nil {
		return models.NewApplicationError("Username or email not found.")
	}

	token, err := s.newResetToken()
	if err != nil {
		return models.NewApplicationError(err.Error())
	}
	if err := s.repo.DisableAndIssueResetToken(account.ID, token); err != nil {
		return models.NewDatabaseError(err)
	}

	s.notify(account.Email, account.Username, "A password reset token has been sent to your email.")
	return nil
}

func (s *accountService) UpdatePassword(data models.UpdatePasswordDTO) error {
	if err := data.Validate(); err != nil {
		return models.NewValidationError(err)
	}

	account, err := s.repo.FindByResetToken(data.Token)
	if err != nil {
		return models.NewDatabaseError(err)
	}
	if account == nil {
		return models.NewApplicationError("Incorrect password update token.")
	}

	salt, err := s.passwords.GenerateSalt()
	if err != nil {
		return models.NewApplicationError(err.Error())
	}
	hash, err := s.passwords.HashPassword(data.Password, salt)
	if err != nil {
		return models.NewApplicationError(err.Error())
	}

	if _, err := s.repo.ConsumeResetToken(data.Token, salt, hash); err != nil {
		if err == repositories.ErrResetTokenNotFound {
			// Consumed concurrently between the lookup and the transaction.
			return models.NewApplicationError("Incorrect password update token.")
		}
		return models.NewDatabaseError(err)
	}

	s.notify(account.Email, account.Username, "Your password has been updated.")
	return nil
}

func (s *accountService) IdentityCheck(data models.IdentityCheckDTO) ([]models.Identity, error) {
	if err := data.Validate(); err != nil {
		return nil, models.NewValidationError(err)
	}

	account, err := s.repo.FindByIdentity(data.Identity)
	if err != nil {
		return nil, models.NewDatabaseError(err)
	}
	if account == nil {
		return nil, models.NewApplicationError("Identity not found.")
	}
	return []models.Identity{{Username: account.Username, Email: account.Email}}, nil
}

func (s *accountService) newResetToken() (string, error) {
	return utils.RandomAlphanumeric(resetTokenLength)
}

// notify is deliberately fire-and-forget: delivery outcome is logged
// and dropped so it can never gate a committed operation.
func (s *accountService) notify(to, username, message string) {
	if s.emails == nil {
		return
	}
	if err := s.emails.Send(to, username, message); err != nil {
		log.Printf("[mail] failed to send to %s: %v", to, err)
		return
	}
	log.Printf("[mail] sent to %s", to)
}
