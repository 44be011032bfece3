//go:build !swag

package swaggerkit

// docReader without generated docs serves an empty document so the UI loads
func docReader() string {
	return `{"openapi":"3.0.3","info":{"title":"Blue Bird API","version":"0.0.0"},"paths":{}}`
}
