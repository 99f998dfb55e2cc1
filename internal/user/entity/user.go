package entity

// User is the read-only projection of a row in the externally managed `users` table.
type User struct {
	ID    int64  `db:"user_id"`
	Email string `db:"email"`
}
