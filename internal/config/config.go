package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/ridwanfathin/invoice-generator-service/internal/domain"
)

// Counter backends
const (
	CounterMemory   = "memory"
	CounterFile     = "file"
	CounterSQLite   = "sqlite"
	CounterPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port          int           `env:"PORT" envDefault:"8080"`
	MaxWorkers    int           `env:"MAX_WORKERS" envDefault:"5"`
	LogFormat     string        `env:"LOG_FORMAT" envDefault:"json"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	ReadTimeout   time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout  time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	PublicBaseURL string        `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080/"`

	// Numbering configuration
	InvoicePrefix  string `env:"INVOICE_PREFIX" envDefault:"INV/SNC"`
	CounterBackend string `env:"COUNTER_BACKEND" envDefault:"file"`
	CounterFile    string `env:"COUNTER_FILE" envDefault:"data/counters.json"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"data/invoices.db"`
	PostgresDBURL  string `env:"POSTGRES_DB_URL"`

	// Export configuration
	ExportDir       string  `env:"EXPORT_DIR"`
	PDFPageFormat   string  `env:"PDF_PAGE_FORMAT" envDefault:"A4"`
	PDFOrientation  string  `env:"PDF_ORIENTATION" envDefault:"portrait"`
	PDFMarginInches float64 `env:"PDF_MARGIN_INCHES" envDefault:"0.3"`
	PDFCompress     bool    `env:"PDF_COMPRESS" envDefault:"true"`

	// Storage configuration
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3AccessKeySecret string `env:"S3_ACCESS_KEY_SECRET"`
	S3Bucket          string `env:"S3_BUCKET"`
	S3Region          string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Prefix          string `env:"S3_PREFIX" envDefault:"invoices"`

	// Letterhead and payment details printed on every invoice
	Company Company `envPrefix:"COMPANY_"`
}

// Company is the env form of domain.CompanyProfile. Unset fields keep the built-in profile.
type Company struct {
	Name          string   `env:"NAME"`
	AddressLines  []string `env:"ADDRESS" envSeparator:"|"`
	Phone         string   `env:"PHONE"`
	Email         string   `env:"EMAIL"`
	BillingEmail  string   `env:"BILLING_EMAIL"`
	NPWP          string   `env:"NPWP"`
	BankName      string   `env:"BANK_NAME"`
	AccountNumber string   `env:"ACCOUNT_NUMBER"`
	AccountHolder string   `env:"ACCOUNT_HOLDER"`
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	loadDotEnv()

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	config.CounterBackend = strings.ToLower(strings.TrimSpace(config.CounterBackend))

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// loadDotEnv loads .env from the project root, falling back to the working directory
func loadDotEnv() {
	execPath, err := os.Executable()
	if err != nil {
		log.Printf("Warning: Could not determine executable path: %v", err)
	}

	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(execPath)))
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading .env file. Using environment variables.")
		} else {
			log.Println("Loaded environment variables from current directory .env file")
		}
	} else {
		log.Printf("Loaded environment variables from %s", envPath)
	}
}

// validateConfig rejects unusable values and logs warnings for missing optional integrations
func validateConfig(config *Config) error {
	switch config.CounterBackend {
	case CounterMemory, CounterFile, CounterSQLite:
	case CounterPostgres:
		if config.PostgresDBURL == "" {
			return fmt.Errorf("COUNTER_BACKEND=postgres requires POSTGRES_DB_URL")
		}
	default:
		return fmt.Errorf("unknown COUNTER_BACKEND %q", config.CounterBackend)
	}

	if config.CounterBackend == CounterMemory {
		log.Println("Warning: In-memory invoice counter selected. Numbers restart from 001 on every restart.")
	}

	if config.S3Endpoint != "" && (config.S3AccessKeyID == "" || config.S3AccessKeySecret == "" || config.S3Bucket == "") {
		log.Println("Warning: S3 endpoint set without credentials or bucket. Exports will not be uploaded.")
	}

	if config.ExportDir == "" && !config.S3Enabled() {
		log.Println("Warning: No export destination configured. Exports are only streamed back to the caller.")
	}
	return nil
}

// S3Enabled reports whether every S3 setting needed for uploads is present
func (c *Config) S3Enabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKeyID != "" && c.S3AccessKeySecret != "" && c.S3Bucket != ""
}

// CompanyProfile merges the configured company fields over the built-in profile
func (c *Config) CompanyProfile() domain.CompanyProfile {
	p := domain.DefaultCompanyProfile()
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&p.Name, c.Company.Name)
	set(&p.Phone, c.Company.Phone)
	set(&p.Email, c.Company.Email)
	set(&p.BillingEmail, c.Company.BillingEmail)
	set(&p.NPWP, c.Company.NPWP)
	set(&p.BankName, c.Company.BankName)
	set(&p.AccountNumber, c.Company.AccountNumber)
	set(&p.AccountHolder, c.Company.AccountHolder)
	if len(c.Company.AddressLines) > 0 {
		p.AddressLines = c.Company.AddressLines
	}
	return p
}
