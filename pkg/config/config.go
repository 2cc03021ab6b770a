package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente .env).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	Client    ClientConfig
	Bootstrap BootstrapConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env       string // development, staging, production
	Name      string
	StoreName string // nombre impreso en tickets y reportes
	LogLevel  string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
// Driver "memory" levanta el backend sin base de datos (demos y pruebas manuales).
type DBConfig struct {
	Driver      string
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig destino de las imágenes de productos.
// Driver "local" escribe en LocalDir y sirve bajo PublicBaseURL; "s3" sube a un bucket.
type StorageConfig struct {
	Driver        string
	LocalDir      string
	PublicBaseURL string
	MaxImageBytes int64
	S3Bucket      string
	S3Region      string
	S3AccessKey   string
	S3SecretKey   string
	S3PublicURL   string // CDN opcional delante del bucket
}

// RateLimitConfig límite de intentos de login por IP.
type RateLimitConfig struct {
	LoginPerMinute int
	LoginBurst     int
}

// BootstrapConfig primer administrador. Si AdminEmail está vacío no se crea nada.
type BootstrapConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// ClientConfig configuración del cliente de administración (cmd/admin).
// Centraliza el host del backend que antes estaba repetido en cada pantalla.
type ClientConfig struct {
	APIBaseURL  string
	Timeout     time.Duration
	SessionFile string
}

// Load lee la configuración desde variables de entorno.
// Un archivo .env en el directorio actual se carga primero; las env vars ya definidas tienen prioridad.
func Load() (*Config, error) {
	_ = godotenv.Load() // ignoramos error si no existe

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:       getString(v, "APP_ENV", "development"),
			Name:      getString(v, "APP_NAME", "urbanstyle-admin"),
			StoreName: getString(v, "STORE_NAME", "UrbanStyle"),
			LogLevel:  getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			Driver:      getString(v, "DB_DRIVER", "postgres"),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "urbanstyle"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "urbanstyle-admin"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Storage: StorageConfig{
			Driver:        getString(v, "STORAGE_DRIVER", "local"),
			LocalDir:      getString(v, "STORAGE_LOCAL_DIR", "./uploads"),
			PublicBaseURL: getString(v, "STORAGE_PUBLIC_BASE_URL", "http://localhost:8080/uploads"),
			MaxImageBytes: int64(getInt(v, "STORAGE_MAX_IMAGE_MB", 5)) << 20,
			S3Bucket:      getString(v, "S3_BUCKET", ""),
			S3Region:      getString(v, "S3_REGION", "us-east-1"),
			S3AccessKey:   getString(v, "S3_ACCESS_KEY_ID", ""),
			S3SecretKey:   getString(v, "S3_SECRET_ACCESS_KEY", ""),
			S3PublicURL:   getString(v, "S3_PUBLIC_BASE_URL", ""),
		},
		RateLimit: RateLimitConfig{
			LoginPerMinute: getInt(v, "LOGIN_RATE_PER_MINUTE", 10),
			LoginBurst:     getInt(v, "LOGIN_RATE_BURST", 5),
		},
		Client: ClientConfig{
			APIBaseURL:  getString(v, "API_BASE_URL", "http://localhost:8080"),
			Timeout:     time.Duration(getInt(v, "API_TIMEOUT_SECONDS", 15)) * time.Second,
			SessionFile: getString(v, "SESSION_FILE", defaultSessionFile()),
		},
		Bootstrap: BootstrapConfig{
			AdminName:     getString(v, "ADMIN_NAME", "Administrador"),
			AdminEmail:    getString(v, "ADMIN_EMAIL", ""),
			AdminPassword: getString(v, "ADMIN_PASSWORD", ""),
		},
	}

	if cfg.DB.Driver != "postgres" && cfg.DB.Driver != "memory" {
		return nil, fmt.Errorf("config: DB_DRIVER inválido %q (postgres|memory)", cfg.DB.Driver)
	}
	if cfg.Storage.Driver != "local" && cfg.Storage.Driver != "s3" {
		return nil, fmt.Errorf("config: STORAGE_DRIVER inválido %q (local|s3)", cfg.Storage.Driver)
	}
	return cfg, nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".urbanstyle-session.json"
	}
	return filepath.Join(dir, "urbanstyle", "session.json")
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return n
	default:
		return v.GetInt(key)
	}
}
