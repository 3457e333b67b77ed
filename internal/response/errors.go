package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionActive      ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrCallsignTaken      ErrCode = "SIGNUP_REJECTED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden     ErrCode = "FORBIDDEN"
	ErrCandidateOnly ErrCode = "CANDIDATE_ACCESS_ONLY"
	ErrExaminerOnly  ErrCode = "EXAMINER_ACCESS_ONLY"
	ErrNotExamOwner  ErrCode = "NOT_EXAM_OWNER"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Sessions ──────────────────────────────────────────────────────
	ErrOpenExams       ErrCode = "OPEN_EXAMS"
	ErrSessionHasExams ErrCode = "SESSION_HAS_EXAMS"
	ErrSessionNotOpen  ErrCode = "SESSION_NOT_OPEN"
	ErrSessionClosed   ErrCode = "SESSION_CLOSED"

	// ─── Registration / exams ──────────────────────────────────────────
	ErrNotRegistered  ErrCode = "NOT_REGISTERED"
	ErrInvalidElement ErrCode = "INVALID_ELEMENT"
	ErrIncompletePool ErrCode = "INCOMPLETE_POOL"
	ErrOversizedPool  ErrCode = "OVERSIZED_POOL"
	ErrExamClosed     ErrCode = "EXAM_CLOSED"
	ErrExamStillOpen  ErrCode = "EXAM_STILL_OPEN"

	// ─── Uploads ───────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"
	ErrMalformedCSV    ErrCode = "MALFORMED_CSV"

	// ─── Rate limiting / server ────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"
	ErrInternal          ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Please check your login details and try again."
	case ErrSessionActive:
		return "You are already logged in on another device."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrCallsignTaken:
		// Intentionally vague so signup cannot be used to probe for accounts.
		return "Error 42, please contact a VE."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "Access denied."
	case ErrCandidateOnly:
		return "This resource is restricted to ham candidates."
	case ErrExaminerOnly:
		return "This resource is restricted to volunteer examiners."
	case ErrNotExamOwner:
		return "This exam belongs to another candidate."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Sessions ──────────────────────────────────────────────────────
	case ErrOpenExams:
		return "There are still open exams in this session."
	case ErrSessionHasExams:
		return "There are exams in this session."
	case ErrSessionNotOpen:
		return "This exam session is not open."
	case ErrSessionClosed:
		return "This exam session is closed."

	// ─── Registration / exams ──────────────────────────────────────────
	case ErrNotRegistered:
		return "No valid registration for this exam element."
	case ErrInvalidElement:
		return "Unknown exam element."
	case ErrIncompletePool:
		return "The question pool cannot fill a complete exam."
	case ErrOversizedPool:
		return "The question pool has more sub-element groups than the exam takes."
	case ErrExamClosed:
		return "This exam has been submitted and is closed."
	case ErrExamStillOpen:
		return "Exam is still in progress."

	// ─── Uploads ───────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "File size exceeds the limit."
	case ErrMalformedCSV:
		return "The question CSV could not be parsed."

	// ─── Rate limiting / server ────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
