// Package config
package config

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lumenmm/offerbot/internal/market"
)

/*
YAML config example:

account: "GDQP2KPQGKIHYJGXNUIYOMHARUARCA7DJT5FO2FFOOKY3B2WSQHG4W37"
counter_asset: { code: "USDC", issuer: "GA5ZSEJYB37JRC5AVCIA5MOP4RHTM335X2KGX3IHOJAPP5RE34K4KZVV" }
base_assets:
  XLM: ""
  AQUA: "GBNZILSTVQZ4R7IKQDGHYGY2QXL5QOFJYQMXPKWRRM5PAV7Y4M67AQUA"
strategy: "anomaly"    # anomaly | momentum | maker
venue: "wallex"        # wallex | paper
record_store: "file"   # file | postgres | memory
record_file: "records.json"
interval: 60s
candle_bucket: 1h
window: 20
deviation_k: 2
notional_cap: 10000
dust_threshold: 1
exit_reserve: 2
metrics_addr: ":9090"

Secrets come from the environment: WALLEX_API_KEY, DB_CONN_STR,
TELEGRAM_TOKEN, TELEGRAM_CHAT_ID.
*/

type Config struct {
	Account      string            `yaml:"account"`
	CounterAsset market.Asset      `yaml:"counter_asset"`
	BaseAssets   map[string]string `yaml:"base_assets"` // code -> issuer

	Strategy    string `yaml:"strategy"`
	Venue       string `yaml:"venue"`
	RecordStore string `yaml:"record_store"`
	RecordFile  string `yaml:"record_file"`

	Interval     time.Duration `yaml:"interval"`
	CandleBucket time.Duration `yaml:"candle_bucket"`

	Window        int     `yaml:"window"`
	DeviationK    float64 `yaml:"deviation_k"`
	NotionalCap   float64 `yaml:"notional_cap"`
	DustThreshold float64 `yaml:"dust_threshold"`
	ExitReserve   float64 `yaml:"exit_reserve"`

	MetricsAddr string `yaml:"metrics_addr"`

	WallexAPIKey   string `yaml:"-"`
	DBConnStr      string `yaml:"-"`
	TelegramToken  string `yaml:"-"`
	TelegramChatID string `yaml:"-"`
}

// Markets builds the immutable market set from the configured base assets,
// in stable code order.
func (c Config) Markets() []market.Market {
	codes := make([]string, 0, len(c.BaseAssets))
	for code := range c.BaseAssets {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	markets := make([]market.Market, 0, len(codes))
	for _, code := range codes {
		markets = append(markets, market.Market{
			Base:    market.Asset{Code: code, Issuer: c.BaseAssets[code]},
			Counter: c.CounterAsset,
		})
	}
	return markets
}

func (c Config) validate() error {
	if c.CounterAsset.Code == "" {
		return fmt.Errorf("counter_asset.code is required")
	}
	if len(c.BaseAssets) == 0 {
		return fmt.Errorf("at least one base asset is required")
	}
	switch c.Strategy {
	case "anomaly", "momentum", "maker":
	default:
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	switch c.Venue {
	case "wallex", "paper":
	default:
		return fmt.Errorf("unknown venue %q", c.Venue)
	}
	switch c.RecordStore {
	case "file", "postgres", "memory":
	default:
		return fmt.Errorf("unknown record_store %q", c.RecordStore)
	}
	if c.Venue == "wallex" && c.WallexAPIKey == "" {
		return fmt.Errorf("WALLEX_API_KEY is required for the wallex venue")
	}
	if c.RecordStore == "postgres" && c.DBConnStr == "" {
		return fmt.Errorf("DB_CONN_STR is required for the postgres record store")
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Strategy == "" {
		c.Strategy = "anomaly"
	}
	if c.Venue == "" {
		c.Venue = "paper"
	}
	if c.RecordStore == "" {
		c.RecordStore = "file"
	}
	if c.RecordFile == "" {
		c.RecordFile = "records.json"
	}
	if c.Interval == 0 {
		c.Interval = 60 * time.Second
	}
	if c.CandleBucket == 0 {
		c.CandleBucket = time.Hour
	}
	return c
}

// Load reads the YAML file named by -config, applies defaults, and pulls
// secrets from the environment.
func Load() (Config, error) {
	configFile := flag.String("config", "config.yaml", "Path to YAML config file")
	flag.Parse()

	data, err := os.ReadFile(*configFile)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}

	cfg = cfg.withDefaults()
	cfg.WallexAPIKey = os.Getenv("WALLEX_API_KEY")
	cfg.DBConnStr = os.Getenv("DB_CONN_STR")
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
