package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y
// opcionalmente archivo). Se construye una sola vez en cmd/api y se inyecta; ningún
// componente consulta configuración global en runtime.
type Config struct {
	App      AppConfig
	DB       DBConfig
	HTTP     HTTPConfig
	Session  SessionConfig
	Keycloak KeycloakConfig
	Audit    AuditConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
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

// SessionConfig configuración de la sesión de servidor (modo local).
type SessionConfig struct {
	CookieName string
	ExpMinutes int
}

// KeycloakConfig configuración del identity provider externo. Con Enabled en false
// (el default) la aplicación opera solo con sesión local.
type KeycloakConfig struct {
	Enabled            bool
	Issuer             string // ej. http://localhost:8080/realms/inventory-realm
	ClientID           string
	PublicKeyPEM       string // llave pública RS256 del realm, formato PEM
	PostLogoutRedirect string
}

// AuditConfig configuración del rastro de auditoría.
type AuditConfig struct {
	TrailPath  string // archivo plano append-only
	BufferSize int    // cola del worker de auditoría
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo
// .env o config.env). Las env vars tienen prioridad. Los defaults dejan una instancia
// local funcional: Postgres en localhost y autenticación de sesión únicamente.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "inventory-ops"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "inventory_ops"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 3000),
		},
		Session: SessionConfig{
			CookieName: getString(v, "SESSION_COOKIE", "inventory_session"),
			ExpMinutes: getInt(v, "SESSION_EXP_MINUTES", 60),
		},
		Keycloak: KeycloakConfig{
			Enabled:            getBool(v, "KEYCLOAK_ENABLED", false),
			Issuer:             getString(v, "KEYCLOAK_ISSUER", "http://localhost:8080/realms/inventory-realm"),
			ClientID:           getString(v, "KEYCLOAK_CLIENT_ID", "inventory-app"),
			PublicKeyPEM:       getString(v, "KEYCLOAK_REALM_PUBLIC_KEY", ""),
			PostLogoutRedirect: getString(v, "KEYCLOAK_POST_LOGOUT_REDIRECT", ""),
		},
		Audit: AuditConfig{
			TrailPath:  getString(v, "AUDIT_TRAIL_PATH", "audit.log"),
			BufferSize: getInt(v, "AUDIT_BUFFER_SIZE", 256),
		},
	}

	// Modo delegado sin llave pública: el verificador no podría validar firmas.
	if cfg.Keycloak.Enabled && cfg.Keycloak.PublicKeyPEM == "" {
		return nil, fmt.Errorf("KEYCLOAK_ENABLED requiere KEYCLOAK_REALM_PUBLIC_KEY")
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
