//go:build swag

package swaggerkit

import docs "bluebird/internal/services/api/docs"

func docReader() string { return docs.SwaggerInfo.ReadDoc() }
