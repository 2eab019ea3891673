package services

import (
	"database/sql"
	"errors"

	"reliefmarket/internal/auth"
	"reliefmarket/internal/domain"
	"reliefmarket/internal/repos"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Users       *repos.UserRepo
	Tokens      *auth.JWTService
	Eligibility *EligibilityService
}

func NewAuthService(users *repos.UserRepo, tokens *auth.JWTService, eligibility *EligibilityService) *AuthService {
	return &AuthService{Users: users, Tokens: tokens, Eligibility: eligibility}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Phone    string `json:"phone"`
}

// Register creates a victim or manufacturer account. Victims registering with
// a zip code must be inside an active disaster zone and come out approved;
// manufacturers always start unapproved pending admin review.
func (s *AuthService) Register(in RegisterInput) (domain.AuthUser, string, error) {
	if existing, err := s.Users.ByEmail(in.Email); err == nil && existing != nil {
		return domain.AuthUser{}, "", ErrEmailTaken
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return domain.AuthUser{}, "", err
	}

	if in.Role == domain.RoleVictim && in.ZipCode != "" {
		ok, err := s.Eligibility.Eligible(in.ZipCode)
		if err != nil {
			return domain.AuthUser{}, "", err
		}
		if !ok {
			return domain.AuthUser{}, "", ErrNotEligible
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 12)
	if err != nil {
		return domain.AuthUser{}, "", err
	}

	ts := nowStamp()
	u := domain.User{
		ID:         uuid.NewString(),
		Email:      in.Email,
		Name:       in.Name,
		Hash:       string(hash),
		Role:       in.Role,
		Address:    in.Address,
		City:       in.City,
		State:      in.State,
		ZipCode:    in.ZipCode,
		Phone:      in.Phone,
		IsApproved: in.Role == domain.RoleVictim,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	if err := s.Users.Create(&u); err != nil {
		// A racing registration can slip past the ByEmail check; the unique
		// index still catches it.
		if repos.IsUniqueViolation(err) {
			return domain.AuthUser{}, "", ErrEmailTaken
		}
		return domain.AuthUser{}, "", err
	}

	return s.issue(&u)
}

func (s *AuthService) Login(email, password string) (domain.AuthUser, string, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return domain.AuthUser{}, "", ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return domain.AuthUser{}, "", ErrBadCreds
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *domain.User) (domain.AuthUser, string, error) {
	token, err := s.Tokens.Generate(u.ID, u.Email, u.Name, u.Role, u.IsApproved)
	if err != nil {
		return domain.AuthUser{}, "", err
	}
	return domain.AuthUser{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		IsApproved: u.IsApproved,
	}, token, nil
}
