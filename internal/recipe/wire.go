package recipe

import (
	"database/sql"

	"github.com/google/wire"
)

func ProvideProvider(db *sql.DB) Provider {
	return NewPostgresStorage(db)
}

var ProviderSet = wire.NewSet(ProvideProvider)
