package services

// Identity is the authenticated user a request acts as. It is passed
// explicitly into every service call.
type Identity struct {
	UserID   int64
	Username string
}
