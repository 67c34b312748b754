package connection

import (
	"database/sql"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// GormFromTx returns a gorm session whose statements run on the given
// open transaction. Repositories use it in WithTx so every statement of a
// use case shares one transaction boundary.
func GormFromTx(tx *sql.Tx) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: tx}), &gorm.Config{})
}
