package domain

const (
	RoleAdmin    = "ADMIN"
	RoleStandard = "STANDARD USER"
)

// User is owned by the user-management layer; the ledger only ever sees the
// integer UserID as an account owner reference.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	UserID       int64  `json:"user_id"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type UserRepository interface {
	LoadAll() ([]*User, error)
	SaveAll(users []*User) error
}
