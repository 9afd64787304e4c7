package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "spentra/internal/errors"
	"spentra/internal/logger"
	"spentra/internal/mailer"
	"spentra/internal/models"
)

const (
	otpLength = 6
	otpExpiry = 10 * time.Minute
)

// otpService handles the password-reset OTP flow.
type otpService struct {
	db     *gorm.DB
	mailer mailer.Sender
}

// NewOTPService creates a new OTPServicer.
func NewOTPService(db *gorm.DB, sender mailer.Sender) OTPServicer {
	return &otpService{db: db, mailer: sender}
}

// RequestReset generates a fresh OTP for the user with the given email and
// emails it. An unknown email is reported as ErrUserNotFound so the handler
// can decide how much to disclose.
func (s *otpService) RequestReset(email string) error {
	user, err := s.findUser(email)
	if err != nil {
		return err
	}

	code, err := generateOTPCode(otpLength)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	expiresAt := time.Now().Add(otpExpiry)

	// One active OTP per user: replace any previous code.
	var existing models.PasswordResetOTP
	dbErr := s.db.Where("user_id = ?", user.ID).First(&existing).Error
	if dbErr != nil {
		if !errors.Is(dbErr, gorm.ErrRecordNotFound) {
			return apperrors.Wrap(apperrors.ErrInternalServer, dbErr)
		}
		otp := &models.PasswordResetOTP{
			UserID:    user.ID,
			Code:      code,
			ExpiresAt: expiresAt,
		}
		if err := s.db.Create(otp).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	} else {
		existing.Code = code
		existing.ExpiresAt = expiresAt
		existing.Verified = false
		if err := s.db.Save(&existing).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	body := fmt.Sprintf("Your Spentra password reset code is %s. It expires in 10 minutes.", code)
	if err := s.mailer.Send(user.Email, "Password Reset Code", body); err != nil {
		// The OTP is stored; a mail hiccup should not fail the request.
		logger.Get().Errorw("failed to send OTP email", "error", err, "user_id", user.ID)
	}

	return nil
}

// VerifyOTP marks the user's OTP as verified if the code matches and has
// not expired.
func (s *otpService) VerifyOTP(email, code string) error {
	user, err := s.findUser(email)
	if err != nil {
		return err
	}

	otp, err := s.findOTP(user.ID, code)
	if err != nil {
		return err
	}

	if err := s.db.Model(otp).Update("verified", true).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ConsumeVerifiedOTP checks that the OTP matches and was verified, then
// deletes it and returns the owning user. The caller performs the actual
// password update.
func (s *otpService) ConsumeVerifiedOTP(email, code string) (*models.User, error) {
	user, err := s.findUser(email)
	if err != nil {
		return nil, err
	}

	otp, err := s.findOTP(user.ID, code)
	if err != nil {
		return nil, err
	}
	if !otp.Verified {
		return nil, apperrors.ErrOTPNotVerified
	}

	if err := s.db.Unscoped().Delete(otp).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

func (s *otpService) findUser(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

func (s *otpService) findOTP(userID, code string) (*models.PasswordResetOTP, error) {
	var otp models.PasswordResetOTP
	if err := s.db.Where("user_id = ?", userID).First(&otp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidOTP
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if otp.Code != code {
		return nil, apperrors.ErrInvalidOTP
	}
	if time.Now().After(otp.ExpiresAt) {
		return nil, apperrors.ErrExpiredOTP
	}
	return &otp, nil
}

// generateOTPCode returns a random numeric code of the given length.
func generateOTPCode(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}
