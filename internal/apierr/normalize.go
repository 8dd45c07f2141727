package apierr

import (
	"errors"
	"strings"

	"github.com/glebarez/go-sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes translated by Normalize.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgDataExceptionClass  = "22"
)

// SQLite extended result codes translated by Normalize.
const (
	sqliteConstraintCheck      = 275
	sqliteConstraintForeignKey = 787
	sqliteConstraintNotNull    = 1299
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// Normalize converts any error into an *Error. Errors that already are an
// *Error are returned unchanged, data-layer failures are translated, and
// everything else becomes an internal error. A nil error yields nil.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	if e := translate(err); e != nil {
		return e.Wrap(err)
	}

	return Internal(err)
}

// Is reports whether err normalizes to the given kind.
func Is(err error, kind Kind) bool {
	e := Normalize(err)
	return e != nil && e.Kind == kind
}

func translate(err error) *Error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("record")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return translatePostgres(pgErr)
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Duplicate("value")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return InvalidReference("referenced record does not exist")
	case errors.Is(err, gorm.ErrCheckConstraintViolated),
		errors.Is(err, gorm.ErrInvalidData),
		errors.Is(err, gorm.ErrInvalidField),
		errors.Is(err, gorm.ErrInvalidValue),
		errors.Is(err, gorm.ErrInvalidValueOfLength),
		errors.Is(err, gorm.ErrEmptySlice):
		return InvalidInput("invalid input")
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return translateSQLite(liteErr)
	}

	return nil
}

func translatePostgres(pgErr *pgconn.PgError) *Error {
	switch {
	case pgErr.Code == pgUniqueViolation:
		return Duplicate(pgKeyField(pgErr))
	case pgErr.Code == pgForeignKeyViolation:
		if strings.Contains(pgErr.Detail, "is still referenced") {
			return InvalidReference("record is still referenced by other records")
		}
		return InvalidReference("referenced record does not exist")
	case pgErr.Code == pgNotNullViolation:
		return InvalidInput("missing value for " + fieldOr(pgErr.ColumnName, "a required field"))
	case pgErr.Code == pgCheckViolation:
		return InvalidInput("invalid input")
	case strings.HasPrefix(pgErr.Code, pgDataExceptionClass):
		return InvalidInput("malformed input")
	}
	return nil
}

// pgKeyField extracts the column from details such as
// "Key (username)=(bob) already exists.".
func pgKeyField(pgErr *pgconn.PgError) string {
	if start := strings.Index(pgErr.Detail, "Key ("); start >= 0 {
		rest := pgErr.Detail[start+len("Key ("):]
		if end := strings.Index(rest, ")"); end > 0 {
			return rest[:end]
		}
	}
	return fieldOr(pgErr.ColumnName, "value")
}

func translateSQLite(liteErr *sqlite.Error) *Error {
	switch liteErr.Code() {
	case sqliteConstraintUnique, sqliteConstraintPrimaryKey:
		return Duplicate(sqliteField(liteErr.Error()))
	case sqliteConstraintForeignKey:
		return InvalidReference("referenced record does not exist")
	case sqliteConstraintNotNull:
		return InvalidInput("missing value for " + sqliteField(liteErr.Error()))
	case sqliteConstraintCheck:
		return InvalidInput("invalid input")
	}
	return nil
}

// sqliteField extracts the columns from messages such as
// "constraint failed: UNIQUE constraint failed: users.username (2067)".
func sqliteField(msg string) string {
	idx := strings.LastIndex(msg, ": ")
	if idx < 0 {
		return "value"
	}
	list := msg[idx+2:]
	if paren := strings.Index(list, " ("); paren >= 0 {
		list = list[:paren]
	}
	cols := strings.Split(list, ", ")
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		c = strings.TrimSpace(c)
		if dot := strings.LastIndex(c, "."); dot >= 0 {
			c = c[dot+1:]
		}
		if c != "" {
			names = append(names, c)
		}
	}
	return fieldOr(strings.Join(names, ", "), "value")
}

func fieldOr(field, fallback string) string {
	if field == "" {
		return fallback
	}
	return field
}
