package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthInvalidCredentials     ErrorCode = "AUTH_001"
	AuthMissingToken           ErrorCode = "AUTH_002"
	AuthExpiredToken           ErrorCode = "AUTH_003"
	AuthInvalidTokenFormat     ErrorCode = "AUTH_004"
	AuthInsufficientPermission ErrorCode = "AUTH_005"
	AuthAccountLocked          ErrorCode = "AUTH_006"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
	ValidationInvalidEmail  ErrorCode = "VALIDATION_005"
	ValidationWeakPassword  ErrorCode = "VALIDATION_006"
	ValidationInvalidDate   ErrorCode = "VALIDATION_007"
)

// User error codes (USER_*)
const (
	UserNotFound        ErrorCode = "USER_001"
	UserAlreadyExists   ErrorCode = "USER_002"
	UserInvalidID       ErrorCode = "USER_003"
	UserInvalidAvatar   ErrorCode = "USER_004"
	UserAvatarTooLarge  ErrorCode = "USER_005"
	UserPasswordInvalid ErrorCode = "USER_006"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound         ErrorCode = "TRANSACTION_001"
	TransactionInvalidAmount    ErrorCode = "TRANSACTION_002"
	TransactionInvalidID        ErrorCode = "TRANSACTION_003"
	TransactionInvalidCategory  ErrorCode = "TRANSACTION_004"
	TransactionValidationFailed ErrorCode = "TRANSACTION_005"
	TransactionInvalidType      ErrorCode = "TRANSACTION_006"
	TransactionDuplicate        ErrorCode = "TRANSACTION_007"
)

// Category error codes (CATEGORY_*)
const (
	CategoryNotFound      ErrorCode = "CATEGORY_001"
	CategoryAlreadyExists ErrorCode = "CATEGORY_002"
	CategoryInUse         ErrorCode = "CATEGORY_003"
	CategoryInvalidID     ErrorCode = "CATEGORY_004"
)

// Budget error codes (BUDGET_*)
const (
	BudgetNotFound        ErrorCode = "BUDGET_001"
	BudgetAlreadyExists   ErrorCode = "BUDGET_002"
	BudgetInvalidLimit    ErrorCode = "BUDGET_003"
	BudgetInvalidID       ErrorCode = "BUDGET_004"
	BudgetCategoryLocked  ErrorCode = "BUDGET_005"
	BudgetInvalidCategory ErrorCode = "BUDGET_006"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
	SystemRouteNotFound      ErrorCode = "SYSTEM_007"
	SystemRequestTooLarge    ErrorCode = "SYSTEM_008"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Authentication errors
	AuthInvalidCredentials:     "Invalid email or password",
	AuthMissingToken:           "Authorization token is required",
	AuthExpiredToken:           "Authorization token has expired",
	AuthInvalidTokenFormat:     "Invalid authorization token format",
	AuthInsufficientPermission: "Insufficient permissions to access this resource",
	AuthAccountLocked:          "Account is locked or disabled",

	// Validation errors
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationOutOfRange:    "Field value is out of allowed range",
	ValidationInvalidEmail:  "Invalid email address format",
	ValidationWeakPassword:  "Password must be at least 8 characters and contain uppercase, lowercase, and a number",
	ValidationInvalidDate:   "Invalid date format or range",

	// User errors
	UserNotFound:        "User not found",
	UserAlreadyExists:   "An account with this email already exists",
	UserInvalidID:       "Invalid user ID format",
	UserInvalidAvatar:   "Avatar must be a PNG, JPEG, GIF or WebP image",
	UserAvatarTooLarge:  "Avatar file is too large",
	UserPasswordInvalid: "Current password is incorrect",

	// Transaction errors
	TransactionNotFound:         "Transaction not found",
	TransactionInvalidAmount:    "Amount must be greater than zero",
	TransactionInvalidID:        "Invalid transaction ID format",
	TransactionInvalidCategory:  "Category does not exist",
	TransactionValidationFailed: "Transaction validation failed",
	TransactionInvalidType:      "Transaction type must be income or expense",
	TransactionDuplicate:        "Transaction was already imported",

	// Category errors
	CategoryNotFound:      "Category not found",
	CategoryAlreadyExists: "A category with this name already exists",
	CategoryInUse:         "Category is still used by transactions or budgets",
	CategoryInvalidID:     "Invalid category ID format",

	// Budget errors
	BudgetNotFound:        "Budget not found",
	BudgetAlreadyExists:   "A budget for this category already exists",
	BudgetInvalidLimit:    "Budget limit must be greater than zero",
	BudgetInvalidID:       "Invalid budget ID format",
	BudgetCategoryLocked:  "The category of an existing budget cannot be changed",
	BudgetInvalidCategory: "Category does not exist",

	// System errors
	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemConfigurationError: "System configuration error",
	SystemUnexpectedError:    "An unexpected error occurred",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
	SystemRouteNotFound:      "Resource not found",
	SystemRequestTooLarge:    "Request body is too large",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
