package constants

// Audit log action names.
const (
	Create             = "CREATE"
	Update             = "UPDATE"
	Delete             = "DELETE"
	Issue              = "ISSUE"
	Return             = "RETURN"
	ChangeAvailability = "CHANGE_AVAILABILITY"
)
