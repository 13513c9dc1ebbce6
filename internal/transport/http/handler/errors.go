package handler

const (
	errInternalServer = "Internal server error"

	errEmailTaken         = "Email already registered"
	errInvalidCredentials = "Invalid credentials"

	errContactNotFound       = "Contact not found"
	errForbidden             = "Forbidden"
	errDuplicateContact      = "Contact with same phone/email exists"
	errDuplicateOtherContact = "Another contact with same phone/email exists"
)
