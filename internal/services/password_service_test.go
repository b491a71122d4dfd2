package services

import (
	"strings"
	"testing"

	"fintrack/internal/config"
	"fintrack/internal/models"
	"fintrack/internal/repositories"
	"fintrack/internal/repositories/repository_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

// PasswordServiceTestSuite defines the test suite for PasswordService
type PasswordServiceTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockUserRepo *repository_mocks.MockUserRepositoryInterface
	service      *PasswordService
}

func (s *PasswordServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockUserRepo = repository_mocks.NewMockUserRepositoryInterface(s.ctrl)
	s.service = NewPasswordService(s.mockUserRepo, config.SecurityConfig{
		BCryptCost:       bcrypt.MinCost,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumbers:   true,
	})
}

func (s *PasswordServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestPasswordServiceSuite(t *testing.T) {
	suite.Run(t, new(PasswordServiceTestSuite))
}

func (s *PasswordServiceTestSuite) TestValidatePassword() {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid", "SecurePass123", nil},
		{"minimum valid", "Abcdefg1", nil},
		{"with spaces", "Secure Pass 123", nil},
		{"empty", "", ErrPasswordEmpty},
		{"too short", "Short1A", ErrPasswordTooShort},
		{"too long", "A1" + strings.Repeat("a", MaxPasswordLength), ErrPasswordTooLong},
		{"no uppercase", "securepass123", ErrPasswordNoUppercase},
		{"no lowercase", "SECUREPASS123", ErrPasswordNoLowercase},
		{"no number", "SecurePassword", ErrPasswordNoNumber},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			err := s.service.ValidatePassword(tt.password)
			if tt.wantErr == nil {
				s.NoError(err)
				return
			}
			s.ErrorIs(err, tt.wantErr)
		})
	}
}

func (s *PasswordServiceTestSuite) TestValidatePassword_SpecialCharsWhenRequired() {
	strict := NewPasswordService(s.mockUserRepo, config.SecurityConfig{RequireSpecialChars: true, PasswordMinLength: 12})

	s.ErrorIs(strict.ValidatePassword("SecurePass123"), ErrPasswordNoSpecial)
	s.NoError(strict.ValidatePassword("SecurePass123!"))
	s.ErrorIs(strict.ValidatePassword("Short1!"), ErrPasswordTooShort)
}

func (s *PasswordServiceTestSuite) TestNewPasswordService_Defaults() {
	svc := NewPasswordService(nil, config.SecurityConfig{})

	s.Equal(DefaultBCryptCost, svc.policy.BCryptCost)
	s.Equal(DefaultMinPasswordLength, svc.policy.PasswordMinLength)
}

func (s *PasswordServiceTestSuite) TestHashPassword() {
	hash, err := s.service.HashPassword("SecurePass123")

	s.Require().NoError(err)
	s.NotEqual("SecurePass123", hash)
	s.True(strings.HasPrefix(hash, "$2a$"))
	s.True(s.service.ComparePassword("SecurePass123", hash))
}

func (s *PasswordServiceTestSuite) TestHashPassword_InvalidPassword() {
	hash, err := s.service.HashPassword("weak")

	s.ErrorIs(err, ErrPasswordTooShort)
	s.Empty(hash)
}

func (s *PasswordServiceTestSuite) TestHashUniqueness() {
	first, err := s.service.HashPassword("SecurePass123")
	s.Require().NoError(err)
	second, err := s.service.HashPassword("SecurePass123")
	s.Require().NoError(err)

	s.NotEqual(first, second)
	s.True(s.service.ComparePassword("SecurePass123", first))
	s.True(s.service.ComparePassword("SecurePass123", second))
}

func (s *PasswordServiceTestSuite) TestComparePassword() {
	hash, err := s.service.HashPassword("SecurePass123")
	s.Require().NoError(err)

	s.True(s.service.ComparePassword("SecurePass123", hash))
	s.False(s.service.ComparePassword("securepass123", hash))
	s.False(s.service.ComparePassword("", hash))
	s.False(s.service.ComparePassword("SecurePass123", "not-a-hash"))
	s.False(s.service.ComparePassword("SecurePass123", ""))
}

func (s *PasswordServiceTestSuite) TestGenerateSecurePassword() {
	for _, length := range []int{0, 8, 16, 100} {
		password, err := s.service.GenerateSecurePassword(length)
		s.Require().NoError(err)

		want := length
		if want < DefaultMinPasswordLength {
			want = DefaultMinPasswordLength
		}
		if want > MaxPasswordLength {
			want = MaxPasswordLength
		}
		s.Len(password, want)
		s.NoError(s.service.ValidatePassword(password))
		s.True(specialRegex.MatchString(password))
	}
}

func (s *PasswordServiceTestSuite) TestChangePassword_Success() {
	userID := uuid.New()
	currentHash, err := bcrypt.GenerateFromPassword([]byte("OldPassword1"), bcrypt.MinCost)
	s.Require().NoError(err)

	s.mockUserRepo.EXPECT().GetByID(userID).Return(&models.User{ID: userID, PasswordHash: string(currentHash)}, nil)
	s.mockUserRepo.EXPECT().UpdatePasswordHash(userID, gomock.Any()).DoAndReturn(func(_ uuid.UUID, hash string) error {
		s.True(s.service.ComparePassword("NewPassword2", hash))
		return nil
	})

	s.NoError(s.service.ChangePassword(userID, "OldPassword1", "NewPassword2"))
}

func (s *PasswordServiceTestSuite) TestChangePassword_WrongCurrentPassword() {
	userID := uuid.New()
	currentHash, err := bcrypt.GenerateFromPassword([]byte("OldPassword1"), bcrypt.MinCost)
	s.Require().NoError(err)

	s.mockUserRepo.EXPECT().GetByID(userID).Return(&models.User{ID: userID, PasswordHash: string(currentHash)}, nil)

	s.ErrorIs(s.service.ChangePassword(userID, "Guessed1234", "NewPassword2"), ErrCurrentPasswordWrong)
}

func (s *PasswordServiceTestSuite) TestChangePassword_SamePassword() {
	s.ErrorIs(s.service.ChangePassword(uuid.New(), "SamePassword1", "SamePassword1"), ErrSamePassword)
}

func (s *PasswordServiceTestSuite) TestChangePassword_WeakNewPassword() {
	s.ErrorIs(s.service.ChangePassword(uuid.New(), "OldPassword1", "weakpassword"), ErrPasswordNoUppercase)
}

func (s *PasswordServiceTestSuite) TestChangePassword_UserNotFound() {
	userID := uuid.New()
	s.mockUserRepo.EXPECT().GetByID(userID).Return(nil, repositories.ErrUserNotFound)

	s.ErrorIs(s.service.ChangePassword(userID, "OldPassword1", "NewPassword2"), ErrUserNotFound)
}

func BenchmarkPasswordService_HashPassword(b *testing.B) {
	svc := NewPasswordService(nil, config.SecurityConfig{BCryptCost: bcrypt.MinCost})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = svc.HashPassword("SecurePass123")
	}
}
