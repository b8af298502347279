//go:build swag

package swaggerkit

import docs "custintel/internal/services/api/docs"

var source = func() string { return docs.SwaggerInfo.ReadDoc() }
