package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"taskdesk/internal/apperrors"
	"taskdesk/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]models.UserSummary, error)
	GetTelegramChatID(ctx context.Context, userID int64) (*int64, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	const q = `
		INSERT INTO users (email, name, password_hash, role)
		VALUES ($1,$2,$3,$4)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, q,
		user.Email, user.Name, user.PasswordHash, user.Role,
	).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperrors.Validation("email already registered")
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `WHERE email = $1`, email)
}

func (r *userRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	q := `
		SELECT id, email, name, password_hash, role, telegram_chat_id
		FROM users ` + where
	u := &models.User{}
	var tgChatID sql.NullInt64
	err := r.db.QueryRowContext(ctx, q, arg).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &tgChatID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	if tgChatID.Valid {
		u.TelegramChatID = &tgChatID.Int64
	}
	return u, nil
}

func (r *userRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id,
	).Scan(&exists)
	return exists, err
}

func (r *userRepository) List(ctx context.Context) ([]models.UserSummary, error) {
	const q = `
		SELECT id, name, email, role
		FROM users
		ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role); err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (r *userRepository) GetTelegramChatID(ctx context.Context, userID int64) (*int64, error) {
	var chat sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT telegram_chat_id FROM users WHERE id = $1`, userID,
	).Scan(&chat)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	if !chat.Valid {
		return nil, nil
	}
	return &chat.Int64, nil
}
