package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/biscotto/internal/dbx"
	"github.com/dmitrijs2005/biscotto/internal/server/repositories/assets"
	"github.com/dmitrijs2005/biscotto/internal/server/repositories/products"
	"github.com/dmitrijs2005/biscotto/internal/server/repositories/settings"
	"github.com/dmitrijs2005/biscotto/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Products(db dbx.DBTX) products.Repository
	Settings(db dbx.DBTX) settings.Repository
	Assets(db dbx.DBTX) assets.Repository
}
