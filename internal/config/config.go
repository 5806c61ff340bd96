package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// DevHMACSecret is the default token signing key. It is only accepted
// offline.
const DevHMACSecret = "supersecret-dev-key"

var ErrDevSecret = errors.New("auth_hmac_secret must be set in online mode")

type Config struct {
	Mode      Mode
	HTTPAddr  string
	PublicURL string

	DBDriver string
	DBDSN    string

	BlobBasePath string

	// dataset keys, relative to BlobBasePath or http(s) URLs
	GeoDataset       string
	FinancialDataset string
	SamplesDataset   string
	WatchDatasets    bool
	WatchDebounce    time.Duration

	LoanPredictURL   string
	CreditPredictURL string
	SamplesURL       string // empty: serve samples from the local store
	PredictTimeout   time.Duration

	ThemeFile string

	EnableLocalAuth bool
	AuthHMACSecret  string
	AdminUser       string
	AdminPassHash   string // bcrypt

	CORSOriginsOnline  []string
	CORSOriginsOffline []string
}

// NewViper returns a viper instance with every key defaulted and bound to
// the environment variable of the same name in upper case.
func NewViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("mode", string(ModeOffline))
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("public_url", "")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "")
	v.SetDefault("blob_base_path", "./data")
	v.SetDefault("geo_dataset", "assets/us-states.json")
	v.SetDefault("financial_dataset", "data/Combined_State_Financial_Profile.csv")
	v.SetDefault("samples_dataset", "data/Cleaned_Loan_Data.csv")
	v.SetDefault("watch_datasets", false)
	v.SetDefault("watch_debounce", "200ms")
	v.SetDefault("loan_predict_url", "http://localhost:5000/predict")
	v.SetDefault("credit_predict_url", "http://localhost:5001/predict")
	v.SetDefault("samples_url", "")
	v.SetDefault("predict_timeout", "10s")
	v.SetDefault("theme_file", "")
	v.SetDefault("enable_local_auth", true)
	v.SetDefault("auth_hmac_secret", DevHMACSecret)
	v.SetDefault("admin_user", "admin")
	v.SetDefault("admin_pass_hash", "")
	v.SetDefault("cors_origins_online", "https://creditmap.example.com")
	v.SetDefault("cors_origins_offline", "http://localhost:3000,http://localhost:8080")
	return v
}

// ReadFile merges a YAML config file under the environment. A path that
// does not exist is an error.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

func Load(v *viper.Viper) Config {
	mode := Mode(strings.ToLower(v.GetString("mode")))
	if mode != ModeOnline {
		mode = ModeOffline
	}
	return Config{
		Mode:               mode,
		HTTPAddr:           v.GetString("http_addr"),
		PublicURL:          v.GetString("public_url"),
		DBDriver:           v.GetString("db_driver"),
		DBDSN:              v.GetString("db_dsn"),
		BlobBasePath:       v.GetString("blob_base_path"),
		GeoDataset:         v.GetString("geo_dataset"),
		FinancialDataset:   v.GetString("financial_dataset"),
		SamplesDataset:     v.GetString("samples_dataset"),
		WatchDatasets:      v.GetBool("watch_datasets"),
		WatchDebounce:      v.GetDuration("watch_debounce"),
		LoanPredictURL:     v.GetString("loan_predict_url"),
		CreditPredictURL:   v.GetString("credit_predict_url"),
		SamplesURL:         v.GetString("samples_url"),
		PredictTimeout:     v.GetDuration("predict_timeout"),
		ThemeFile:          v.GetString("theme_file"),
		EnableLocalAuth:    v.GetBool("enable_local_auth"),
		AuthHMACSecret:     v.GetString("auth_hmac_secret"),
		AdminUser:          v.GetString("admin_user"),
		AdminPassHash:      v.GetString("admin_pass_hash"),
		CORSOriginsOnline:  csv(v.GetString("cors_origins_online")),
		CORSOriginsOffline: csv(v.GetString("cors_origins_offline")),
	}
}

func FromEnv() Config { return Load(NewViper()) }

// Validate rejects settings that are only safe on a developer machine.
func (c Config) Validate() error {
	if c.Mode == ModeOnline && (c.AuthHMACSecret == "" || c.AuthHMACSecret == DevHMACSecret) {
		return ErrDevSecret
	}
	return nil
}

// CORSOrigins picks the origin list for the mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

func csv(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
