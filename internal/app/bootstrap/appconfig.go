// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds app-specific configuration loaded via WAFFLE's config
// system. Extend as the app grows.
type AppConfig struct {
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	SessionKey    string
	SessionName   string
	SessionDomain string

	// File storage
	StorageLocalPath string
	StorageLocalURL  string
}
