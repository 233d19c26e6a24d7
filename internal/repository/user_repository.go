package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/railgo/train-booking-api/internal/model"
	"github.com/railgo/train-booking-api/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var (
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")
)

const userCols = "id,username,email,password_hash,full_name,phone,role,created_at,updated_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	var phone sql.NullString
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName,
		&phone, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if phone.Valid {
		p := phone.String
		u.Phone = &p
	}
	return u, err
}

// Create inserts a user and returns its ID.  Username and email are
// normalized to lower case before insertion; uniqueness violations are
// mapped to ErrUsernameExists / ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, username, email, password, fullName string, phone *string, role string, cost int) (uint64, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, full_name, phone, role) VALUES (?,?,?,?,?,?)",
		username, email, hash, fullName, phone, role)
	if err != nil {
		if isDuplicate(err) {
			if strings.Contains(err.Error(), "username") {
				return 0, ErrUsernameExists
			}
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by normalized username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE username=? LIMIT 1", username))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userCols+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// EmailInUse reports whether email belongs to a user other than selfID.
// Used by profile updates to enforce email uniqueness before writing.
func (r *UserRepo) EmailInUse(ctx context.Context, email string, selfID uint64) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM users WHERE email=? LIMIT 1", email).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return id != selfID, nil
}

// UpdateFields applies the non-nil fields to the user row.  Password is
// expected to be already hashed.  Only the columns present are touched so
// updated_at reflects real changes.
type UserUpdate struct {
	FullName     *string
	Phone        *string
	Email        *string
	PasswordHash *string
	Role         *string
}

func (r *UserRepo) Update(ctx context.Context, id uint64, upd UserUpdate) error {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if upd.FullName != nil {
		sets = append(sets, "full_name=?")
		args = append(args, *upd.FullName)
	}
	if upd.Phone != nil {
		sets = append(sets, "phone=?")
		args = append(args, *upd.Phone)
	}
	if upd.Email != nil {
		sets = append(sets, "email=?")
		args = append(args, strings.ToLower(strings.TrimSpace(*upd.Email)))
	}
	if upd.PasswordHash != nil {
		sets = append(sets, "password_hash=?")
		args = append(args, *upd.PasswordHash)
	}
	if upd.Role != nil {
		sets = append(sets, "role=?")
		args = append(args, *upd.Role)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ",")+" WHERE id=?", args...)
	if isDuplicate(err) {
		return ErrEmailExists
	}
	return err
}

// Delete removes a user; dependent tickets and payments cascade at the
// database level.  Returns sql.ErrNoRows when the user does not exist.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
