// Package repository реализует хранилище данных на основе PostgreSQL
// для рецептурной платформы: пользователей и подписок, справочников
// тегов и ингредиентов, рецептов с их строками ингредиентов,
// избранного и списка покупок.
//
// Уникальные ограничения пар (пользователь, рецепт) и (подписчик, автор)
// живут в схеме базы: проверка существования и вставка выполняются одним
// атомарным действием, а нарушение ограничения транслируется в доменную
// ошибку. Это закрывает гонку двух конкурентных вставок одной пары.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/marusyakotova/foodgram-backend/internal/errs"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'recipes'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table recipes missing or query error: %w", err)
	}
	return nil
}

// isUniqueViolation сообщает, нарушена ли уникальность именованного
// ограничения. Пустое имя означает любое уникальное ограничение.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// isForeignKeyViolation сообщает, что вставка ссылается на
// несуществующую строку справочника или сущности.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}

// isCheckViolation сообщает о нарушении CHECK-ограничения схемы.
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation
}

// wrapNoRows заменяет sql.ErrNoRows на доменный сентинел "не найдено".
func wrapNoRows(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
