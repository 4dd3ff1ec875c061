package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/vitacross/vitacross-api/internal/dto"
	"github.com/vitacross/vitacross-api/internal/i18n"
	"github.com/vitacross/vitacross-api/internal/mailer"
	"github.com/vitacross/vitacross-api/internal/models"
	"github.com/vitacross/vitacross-api/internal/session"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken            = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidCode           = errors.New("invalid or expired verification code")
	ErrProviderNotConfigured = errors.New("sign-in provider is not configured")
	ErrPasswordRequired      = errors.New("password is required")
	ErrEmailRequired         = errors.New("email is required")
)

const verificationCodeTTL = 10 * time.Minute

type AuthService struct {
	db        *gorm.DB
	sessions  *session.Manager
	mail      mailer.Mailer
	verifiers map[string]IdentityVerifier
	now       func() time.Time
}

func NewAuthService(db *gorm.DB, sessions *session.Manager, mail mailer.Mailer, verifiers map[string]IdentityVerifier) *AuthService {
	if verifiers == nil {
		verifiers = map[string]IdentityVerifier{}
	}
	return &AuthService{
		db:        db,
		sessions:  sessions,
		mail:      mail,
		verifiers: verifiers,
		now:       time.Now,
	}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = localPart(email)
	}

	user := models.User{
		Email:              email,
		Name:               name,
		PasswordHash:       string(hash),
		LoginMethod:        models.LoginMethodEmail,
		Role:               models.RoleUser,
		TermsAccepted:      true,
		SubscribedToEmails: true,
		TermsAcceptedAt:    &now,
		Language:           i18n.English,
		LastSignedIn:       now,
	}

	if err := s.db.Create(&user).Error; err != nil {
		// lost a race against a concurrent registration
		if s.db.Model(&models.User{}).Where("email = ?", email).Count(&count); count > 0 {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.authResponse(&user)
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	// OAuth-only accounts have no password to compare against
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.touchLastSignedIn(&user)
	return s.authResponse(&user)
}

func (s *AuthService) Me(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func (s *AuthService) UpdateProfile(userID uint, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Me(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	setString := func(column string, v *string) {
		if v != nil {
			updates[column] = strings.TrimSpace(*v)
		}
	}
	setString("name", req.Name)
	setString("phone", req.Phone)
	setString("country", req.Country)
	setString("city", req.City)
	setString("address", req.Address)
	setString("avatar", req.Avatar)
	setString("language", req.Language)

	if len(updates) == 0 {
		return user, nil
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.Me(userID)
}

func (s *AuthService) UpdatePreferences(userID uint, req *dto.UpdatePreferencesRequest) (*models.User, error) {
	user, err := s.Me(userID)
	if err != nil {
		return nil, err
	}
	if req.SubscribedToEmails != nil {
		// map update so that false is written
		if err := s.db.Model(user).Updates(map[string]interface{}{
			"subscribed_to_emails": *req.SubscribedToEmails,
		}).Error; err != nil {
			return nil, fmt.Errorf("failed to update preferences: %w", err)
		}
	}
	return s.Me(userID)
}

// OAuthSignIn signs a user in with a Google or Apple identity token. The user
// is matched by provider subject, then by a provider-verified email (linking the
// subject), and created otherwise.
func (s *AuthService) OAuthSignIn(ctx context.Context, provider string, req *dto.OAuthCallbackRequest) (*dto.AuthResponse, error) {
	verifier, ok := s.verifiers[provider]
	if !ok || verifier == nil {
		return nil, ErrProviderNotConfigured
	}

	claims, err := verifier.Verify(ctx, req.IDToken)
	if err != nil {
		slog.Warn("identity token verification failed", "provider", provider, "error", err)
		return nil, ErrInvalidCredentials
	}

	// only a verified address from the provider may select an existing account
	tokenEmail := normalizeEmail(claims.Email)
	linkByEmail := tokenEmail != "" && claims.EmailVerified

	email := tokenEmail
	if email == "" {
		email = normalizeEmail(req.Email)
	}
	if email == "" && provider == ProviderApple {
		email = claims.Subject + "@privaterelay.appleid.com"
	}
	if email == "" {
		return nil, ErrEmailRequired
	}

	name := firstNonEmpty(claims.Name, strings.TrimSpace(req.Name))
	avatar := firstNonEmpty(claims.Picture, req.Picture)
	column := provider + "_id"

	var user models.User
	err = s.db.Where(column+" = ?", claims.Subject).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) && linkByEmail {
		err = s.db.Where("email = ?", tokenEmail).First(&user).Error
	}

	switch {
	case err == nil:
		updates := map[string]interface{}{
			column:           claims.Subject,
			"last_signed_in": s.now(),
		}
		if name != "" {
			updates["name"] = name
		}
		if avatar != "" {
			updates["avatar"] = avatar
		}
		if linkByEmail && user.Email == tokenEmail && user.EmailVerified == nil {
			updates["email_verified"] = s.now()
		}
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to link %s account: %w", provider, err)
		}
		if err := s.db.First(&user, user.ID).Error; err != nil {
			return nil, fmt.Errorf("failed to reload user: %w", err)
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		var taken int64
		if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&taken).Error; err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken > 0 {
			return nil, ErrEmailTaken
		}

		now := s.now()
		subject := claims.Subject
		user = models.User{
			Email:              email,
			Name:               firstNonEmpty(name, localPart(email)),
			Avatar:             avatar,
			LoginMethod:        provider,
			Role:               models.RoleUser,
			TermsAccepted:      true,
			SubscribedToEmails: true,
			TermsAcceptedAt:    &now,
			Language:           i18n.English,
			LastSignedIn:       now,
		}
		if provider == ProviderGoogle {
			user.GoogleID = &subject
		} else {
			user.AppleID = &subject
		}
		if linkByEmail && email == tokenEmail {
			user.EmailVerified = &now
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create %s user: %w", provider, err)
		}

	default:
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return s.authResponse(&user)
}

// SendVerificationCode stores a fresh six digit code on the account and mails
// it in the account's language.
func (s *AuthService) SendVerificationCode(ctx context.Context, email string) error {
	var user models.User
	if err := s.db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return err
	}
	expires := s.now().Add(verificationCodeTTL)

	if err := s.db.Model(&user).Updates(map[string]interface{}{
		"email_verification_code":    code,
		"email_verification_expires": expires,
	}).Error; err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	p := i18n.Printer(user.Language)
	return s.mail.Send(ctx, mailer.Message{
		To:      []string{user.Email},
		Subject: p.Sprintf(i18n.MsgVerifySubject),
		Body:    p.Sprintf(i18n.MsgVerifyBody, code, int(verificationCodeTTL.Minutes())),
	})
}

func (s *AuthService) VerifyEmailCode(email, code string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		return nil, ErrInvalidCode
	}

	if user.EmailVerificationCode == "" || user.EmailVerificationExpires == nil ||
		s.now().After(*user.EmailVerificationExpires) ||
		subtle.ConstantTimeCompare([]byte(user.EmailVerificationCode), []byte(code)) != 1 {
		return nil, ErrInvalidCode
	}

	if err := s.db.Model(&user).Updates(map[string]interface{}{
		"email_verified":             s.now(),
		"email_verification_code":    "",
		"email_verification_expires": nil,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to verify email: %w", err)
	}
	return s.Me(user.ID)
}

// DeleteAccount removes the account and its orders. Consultations stay for
// the medical record but lose the link to the account.
func (s *AuthService) DeleteAccount(userID uint, password string) error {
	user, err := s.Me(userID)
	if err != nil {
		return err
	}

	if user.PasswordHash != "" {
		if password == "" {
			return ErrPasswordRequired
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			return ErrInvalidCredentials
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PatientConsultation{}).Where("user_id = ?", userID).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Order{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.sessions.Issue(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Success: true, User: user, Token: token}, nil
}

func (s *AuthService) touchLastSignedIn(user *models.User) {
	now := s.now()
	if err := s.db.Model(user).Update("last_signed_in", now).Error; err != nil {
		slog.Warn("failed to update last sign-in", "user_id", user.ID, "error", err)
		return
	}
	user.LastSignedIn = now
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
