package domain

// Admin is a reception staff account. The login is the primary key;
// the password is stored as a bcrypt hash only.
type Admin struct {
	Login        string
	PasswordHash string
}
