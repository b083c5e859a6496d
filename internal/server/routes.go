package server

import (
	"github.com/danielgtaylor/huma/v2"

	v1 "github.com/warelog/warelog/internal/api/v1"
	"github.com/warelog/warelog/internal/store/postgres"
)

func registerAPIRoutes(api huma.API, store *postgres.Store) {
	v1.RegisterActivityRoutes(api, store)
	v1.RegisterAccountRoutes(api, store)
	v1.RegisterUserRoutes(api, store)
}
