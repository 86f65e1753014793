package service

// Error codes surfaced to clients alongside the failure message.
const (
	CodeNotAuthorized    = "NOT_AUTHORIZED"
	CodeNotWhitelisted   = "NOT_WHITELISTED"
	CodeDomainNotAllowed = "DOMAIN_NOT_ALLOWED"
)

// CodedError is a client-facing failure with a stable code.
type CodedError struct {
	Code    string
	Message string
}

func (e *CodedError) Error() string {
	return e.Message
}

func notAuthorized(message string) *CodedError {
	return &CodedError{Code: CodeNotAuthorized, Message: message}
}

func notWhitelisted(message string) *CodedError {
	return &CodedError{Code: CodeNotWhitelisted, Message: message}
}

func domainNotAllowed(message string) *CodedError {
	return &CodedError{Code: CodeDomainNotAllowed, Message: message}
}
