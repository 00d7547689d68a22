package types

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// RetryConfig controls the retry loop against the cost-management API.
type RetryConfig struct {
	MaxAttempts  int    `json:"max_attempts" yaml:"max_attempts" toml:"max_attempts"`
	DelaySeconds int    `json:"delay_seconds" yaml:"delay_seconds" toml:"delay_seconds"`
	Policy       string `json:"policy" yaml:"policy" toml:"policy"`
}

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	Scope                   string      `json:"scope" yaml:"scope" toml:"scope"`
	ManagementBase          string      `json:"management_base" yaml:"management_base" toml:"management_base"`
	APIVersion              string      `json:"api_version" yaml:"api_version" toml:"api_version"`
	ListenAddr              string      `json:"listen_addr" yaml:"listen_addr" toml:"listen_addr"`
	ReportDir               string      `json:"report_dir" yaml:"report_dir" toml:"report_dir"`
	ReservationCost         string      `json:"reservation_cost" yaml:"reservation_cost" toml:"reservation_cost"`
	FetchConsumption        bool        `json:"fetch_consumption" yaml:"fetch_consumption" toml:"fetch_consumption"`
	ManagedIdentityClientID string      `json:"managed_identity_client_id" yaml:"managed_identity_client_id" toml:"managed_identity_client_id"`
	CacheTTLSeconds         int         `json:"cache_ttl_seconds" yaml:"cache_ttl_seconds" toml:"cache_ttl_seconds"`
	LogLevel                string      `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat               string      `json:"log_format" yaml:"log_format" toml:"log_format"`
	Retry                   RetryConfig `json:"retry" yaml:"retry" toml:"retry"`
}

// DefaultConfig retorna a configuração padrão, espelhando os defaults do serviço.
func DefaultConfig() *Config {
	return &Config{
		ManagementBase:   "https://management.azure.com",
		APIVersion:       "2023-11-01",
		ListenAddr:       ":8080",
		ReportDir:        "body",
		ReservationCost:  "0.00",
		FetchConsumption: false,
		CacheTTLSeconds:  3600,
		LogLevel:         "info",
		LogFormat:        "console",
		Retry: RetryConfig{
			MaxAttempts:  100,
			DelaySeconds: 70,
			Policy:       "uniform",
		},
	}
}

// ApplyEnv sobrepõe a configuração com as variáveis de ambiente reconhecidas
// pelo serviço (as mesmas do deployment original).
func (c *Config) ApplyEnv() {
	if v := os.Getenv("SCOPE"); v != "" {
		c.Scope = v
	}
	if v := os.Getenv("RESERVATION_COST"); v != "" {
		c.ReservationCost = v
	}
	if v := os.Getenv("MANAGED_IDENTITY_CLIENT_ID"); v != "" {
		c.ManagedIdentityClientID = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("REPORT_DIR"); v != "" {
		c.ReportDir = v
	}
	// FETCH_MACC_DATA é o nome histórico da flag; FETCH_CONSUMPTION_DATA também é aceito.
	for _, key := range []string{"FETCH_MACC_DATA", "FETCH_CONSUMPTION_DATA"} {
		if v := os.Getenv(key); v != "" {
			c.FetchConsumption = strings.EqualFold(v, "true")
		}
	}
	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.CacheTTLSeconds = n
		}
	}
}

// Validate verifica os campos sem default razoável. O escopo do Azure é o
// único campo obrigatório; sem ele nenhuma consulta pode ser montada.
func (c *Config) Validate() error {
	if c.Scope == "" {
		return ErrScopeNotConfigured
	}
	return nil
}

// CacheTTL returns the response cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// RetryDelay returns the inter-attempt delay as a duration.
func (c *RetryConfig) RetryDelay() time.Duration {
	return time.Duration(c.DelaySeconds) * time.Second
}
