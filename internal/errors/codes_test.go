package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type CodesTestSuite struct {
	suite.Suite
}

func TestCodesTestSuite(t *testing.T) {
	suite.Run(t, new(CodesTestSuite))
}

var allCodes = []ErrorCode{
	AuthInvalidCredentials, AuthMissingToken, AuthExpiredToken, AuthInvalidTokenFormat,
	AuthInsufficientPermission, AuthAccountLocked,
	ValidationGeneral, ValidationRequiredField, ValidationInvalidFormat, ValidationOutOfRange,
	ValidationInvalidEmail, ValidationWeakPassword, ValidationInvalidDate,
	UserNotFound, UserAlreadyExists, UserInvalidID, UserInvalidAvatar, UserAvatarTooLarge, UserPasswordInvalid,
	TransactionNotFound, TransactionInvalidAmount, TransactionInvalidID, TransactionInvalidCategory,
	TransactionValidationFailed, TransactionInvalidType, TransactionDuplicate,
	CategoryNotFound, CategoryAlreadyExists, CategoryInUse, CategoryInvalidID,
	BudgetNotFound, BudgetAlreadyExists, BudgetInvalidLimit, BudgetInvalidID, BudgetCategoryLocked, BudgetInvalidCategory,
	SystemInternalError, SystemDatabaseError, SystemServiceUnavailable, SystemConfigurationError,
	SystemUnexpectedError, SystemRateLimitExceeded, SystemRouteNotFound, SystemRequestTooLarge,
}

func (s *CodesTestSuite) TestGetErrorMessage_ValidCode() {
	testCases := []struct {
		name     string
		code     ErrorCode
		expected string
	}{
		{"Auth Invalid Credentials", AuthInvalidCredentials, "Invalid email or password"},
		{"Validation General", ValidationGeneral, "Validation failed"},
		{"Category In Use", CategoryInUse, "Category is still used by transactions or budgets"},
		{"Budget Category Locked", BudgetCategoryLocked, "The category of an existing budget cannot be changed"},
		{"Transaction Invalid Type", TransactionInvalidType, "Transaction type must be income or expense"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, GetErrorMessage(tc.code))
		})
	}
}

func (s *CodesTestSuite) TestGetErrorMessage_InvalidCode() {
	s.Equal("An error occurred", GetErrorMessage("INVALID_CODE"))
}

func (s *CodesTestSuite) TestIsValidErrorCode() {
	for _, code := range allCodes {
		s.True(IsValidErrorCode(code), "Expected %s to be valid", code)
	}
	for _, code := range []ErrorCode{"INVALID_001", "", "AUTH_999", "CUSTOMER_001"} {
		s.False(IsValidErrorCode(code), "Expected %s to be invalid", code)
	}
}

func (s *CodesTestSuite) TestErrorCodeConstants_Uniqueness() {
	seen := make(map[ErrorCode]bool)
	for _, code := range allCodes {
		s.False(seen[code], "Duplicate error code found: %s", code)
		seen[code] = true
	}
	s.Len(errorMessages, len(allCodes))
}

func (s *CodesTestSuite) TestErrorCodeConstants_Format() {
	prefixes := []string{"AUTH_", "VALIDATION_", "USER_", "TRANSACTION_", "CATEGORY_", "BUDGET_", "SYSTEM_"}
	for _, code := range allCodes {
		matched := false
		for _, p := range prefixes {
			if strings.HasPrefix(string(code), p) {
				matched = true
				break
			}
		}
		s.True(matched, "Error code %s has an unknown prefix", code)
	}
}

func (s *CodesTestSuite) TestAllErrorCodesHaveMessages() {
	for _, code := range allCodes {
		message := GetErrorMessage(code)
		s.NotEmpty(message)
		s.NotEqual("An error occurred", message, "Error code %s should have a specific message", code)
	}
}
