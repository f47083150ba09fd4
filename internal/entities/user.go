package entities

type User struct {
	ID       string `db:"id"`
	Email    string `db:"email"`
	Name     string `db:"name"`
	Role     string `db:"role"`
	PassHash []byte `db:"pass_hash"`
}
