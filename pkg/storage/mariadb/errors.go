package mariadb

import (
	"errors"
	"regexp"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers the services translate into HTTP answers.
const (
	ErDupEntry         = 1062
	ErRowIsReferenced2 = 1451
	ErNoReferencedRow2 = 1452
)

var constraintRe = regexp.MustCompile("CONSTRAINT `([^`]+)`")

func errNumber(err error) (uint16, *mysql.MySQLError) {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number, me
	}
	return 0, nil
}

// IsDuplicate reports a unique-key violation (ER_DUP_ENTRY).
func IsDuplicate(err error) bool {
	n, _ := errNumber(err)
	return n == ErDupEntry
}

// IsForeignKeyViolation reports an insert/update pointing at a missing parent row.
func IsForeignKeyViolation(err error) bool {
	n, _ := errNumber(err)
	return n == ErNoReferencedRow2
}

// IsReferenced reports a delete/update of a row that child rows still point to.
func IsReferenced(err error) bool {
	n, _ := errNumber(err)
	return n == ErRowIsReferenced2
}

// ConstraintName extracts the foreign key constraint name from a FK error message.
func ConstraintName(err error) string {
	_, me := errNumber(err)
	if me == nil {
		return ""
	}
	if m := constraintRe.FindStringSubmatch(me.Message); len(m) == 2 {
		return m[1]
	}
	return ""
}
