// Package config loads rr-cached configuration from environment variables.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// CacheSize bounds the number of entries in the lookup cache.
	CacheSize uint `koanf:"cache_size" validate:"required,gte=1"`

	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Port is the network port the DNS server will bind to.
	Port int `koanf:"port" validate:"required,gte=1,lt=65535"`

	// Servers is a list of upstream DNS servers in ip:port format.
	Servers []string `koanf:"servers" validate:"required,dive,ip_port"`

	// UpstreamTimeout is the per-query upstream timeout in seconds.
	UpstreamTimeout uint `koanf:"upstream_timeout" validate:"required,gte=1"`

	// Parallel races all upstream servers instead of trying them in order.
	Parallel bool `koanf:"parallel"`

	// DNSSEC marks upstream responses as validated, which keeps unverified
	// negative answers out of the cache.
	DNSSEC bool `koanf:"dnssec"`
}

// DefaultAppConfig defines the default settings for the caching forwarder.
var DefaultAppConfig = AppConfig{
	CacheSize:       1000,
	Env:             "prod",
	LogLevel:        "info",
	Port:            53,
	Servers:         []string{"1.1.1.1:53", "1.0.0.1:53"},
	UpstreamTimeout: 5,
	Parallel:        false,
	DNSSEC:          false,
}

// validIPPort validates an "IP:Port" string: the IP must parse and the port
// must be in range.
func validIPPort(fl validator.FieldLevel) bool {
	addr := fl.Field().String()
	ip, port, err := net.SplitHostPort(addr)
	if err != nil || ip == "" || port == "" {
		return false
	}
	if net.ParseIP(ip) == nil {
		return false
	}
	portNum, err := strconv.ParseUint(port, 10, 16)
	return err == nil && portNum > 0 && portNum < 65536
}

// envLoader loads environment variables prefixed "RRC_", lowercasing keys
// and splitting space- or comma-separated values into slices.
// Swappable in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "RRC_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "RRC_"))
			value = strings.TrimSpace(value)

			if value == "" {
				return key, value
			}
			if strings.Contains(value, " ") || strings.Contains(value, ",") {
				parts := strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
				return key, parts
			}
			return key, value
		},
	}), nil)
}

// defaultLoader loads DefaultAppConfig via the structs provider.
// Swappable in tests.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DefaultAppConfig, "koanf"), nil)
}

// registerValidation binds the custom "ip_port" rule to the validator.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("ip_port", validIPPort)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}
	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
