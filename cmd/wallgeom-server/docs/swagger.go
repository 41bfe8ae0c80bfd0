// Package docs provides OpenAPI/Swagger documentation for wallgeom-server.
//
//	@title			wallgeom-server API
//	@version		1.0
//	@description	HTTP adapter over the wall-geometry core library API.
//
//	@host		localhost:8080
//	@BasePath	/api/v1
package docs

import (
	_ "github.com/swaggo/swag"
)
