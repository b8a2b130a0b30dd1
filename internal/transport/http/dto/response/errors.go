package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status:  "error",
		Error:   "authentication_failed",
		Details: "Invalid email or password",
	}

	ErrUnauthorized = ErrorResponse{
		Status: "error",
		Error:  "Unauthorized",
	}

	ErrGalleryNotFound = ErrorResponse{
		Status: "error",
		Error:  "Gallery not found",
	}

	ErrAccountNotFound = ErrorResponse{
		Status: "error",
		Error:  "Account not found",
	}

	ErrAccountExists = ErrorResponse{
		Status:  "error",
		Error:   "account_already_exists",
		Details: "Account with this email already exists",
	}

	ErrInternal = ErrorResponse{
		Status: "error",
		Error:  "Internal server error",
	}
)

// Validation 400 с деталями. Разделяемые переменные выше не мутируются
func Validation(details string) ErrorResponse {
	return ErrorResponseWithDetails("invalid_request", details)
}

// Upstream 500 с общим сообщением, детали только в логах
func Upstream(message string) ErrorResponse {
	return ErrorResponse{
		Status: "error",
		Error:  message,
	}
}
