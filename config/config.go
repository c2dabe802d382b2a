package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Addr string `yaml:"-"` // computed after load, not read from file
	} `yaml:"server"`
	Log struct {
		Level    string `yaml:"level"`
		Format   string `yaml:"format"`
		Output   string `yaml:"output"`
		FilePath string `yaml:"file_path"`
	} `yaml:"log"`

	DB struct {
		Driver          string `yaml:"driver"` // mysql or sqlite
		Host            string `yaml:"host"`
		Port            int    `yaml:"port"`
		Username        string `yaml:"username"`
		Password        string `yaml:"password"`
		Database        string `yaml:"database"`
		Charset         string `yaml:"charset"`
		ParseTime       bool   `yaml:"parse_time"`
		Path            string `yaml:"path"` // sqlite file path
		DSN             string `yaml:"-"`    // computed after load
		MaxOpenConns    int    `yaml:"max_open_conns"`
		MaxIdleConns    int    `yaml:"max_idle_conns"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // minutes
	} `yaml:"database"`

	Matcher struct {
		RouteLength int `yaml:"route_length"` // max artworks in a reused route
	} `yaml:"matcher"`

	CBR struct {
		TopK            int     `yaml:"topk"`             // cases retrieved per query
		FreqWeight      float64 `yaml:"freq_weight"`      // alpha in reuse fusion
		MatchWeight     float64 `yaml:"match_weight"`     // beta in reuse fusion
		PositionWeight  float64 `yaml:"position_weight"`  // gamma in reuse fusion
		DescThreshold   float64 `yaml:"desc_threshold"`   // logistic midpoint for description similarity
		DescSteepness   float64 `yaml:"desc_steepness"`   // logistic slope for description similarity
		ForgetThreshold float64 `yaml:"forget_threshold"` // cases at or below are deleted
		SamplePairs     int     `yaml:"sample_pairs"`     // redundancy comparison cap per case, 0 = exact
	} `yaml:"cbr"`

	CF struct {
		Alpha      float64 `yaml:"alpha"`      // user-based vs item-based mixing weight
		Gamma      float64 `yaml:"gamma"`      // per-item rating spread around the visit rating
		Decay      float64 `yaml:"decay"`      // prior-rating blend factor, 0 = overwrite
		TopK       int     `yaml:"topk"`       // similarity neighbors per prediction, 0 = all
		Similarity string  `yaml:"similarity"` // cosine or pearson
		RatingMin  float64 `yaml:"rating_min"`
		RatingMax  float64 `yaml:"rating_max"`
	} `yaml:"cf"`

	Cluster struct {
		URL        string `yaml:"url"`
		APIKey     string `yaml:"api_key"`
		TimeoutSec int    `yaml:"timeout_sec"`
	} `yaml:"cluster"`

	Embedding struct {
		URL        string `yaml:"url"`
		APIKey     string `yaml:"api_key"`
		TimeoutSec int    `yaml:"timeout_sec"`
	} `yaml:"embedding"`

	Maintenance struct {
		IntervalHours    int   `yaml:"interval_hours"`     // utility recompute + forget cadence
		CheckIntervalSec int   `yaml:"check_interval_sec"` // scheduler tick
		SampleSeed       int64 `yaml:"sample_seed"`        // fixes the redundancy sampling order
	} `yaml:"maintenance"`

	Debug struct {
		Enabled         bool `yaml:"enabled"`
		MaintenanceFreq int  `yaml:"maintenance_freq"` // seconds between maintenance runs in debug mode
	} `yaml:"debug"`
}

func Load() *Config {
	// Load .env first; missing file is fine, system env still applies.
	_ = godotenv.Load()

	var cfg Config

	if data, err := os.ReadFile("config.yaml"); err == nil {
		err = yaml.Unmarshal(data, &cfg)
		if err != nil {
			log.Printf("Error loading config.yaml: %v, falling back to environment variables", err)
			return loadFromEnv()
		}
		log.Println("Loading configuration from config.yaml")

		cfg.Server.Addr = fmt.Sprintf(":%d", cfg.Server.Port)

		// Secrets come from the environment when present.
		if envUsername := os.Getenv("DATABASE_USERNAME"); envUsername != "" {
			cfg.DB.Username = envUsername
		}
		if envPassword := os.Getenv("DATABASE_PASSWORD"); envPassword != "" {
			cfg.DB.Password = envPassword
		}
		if envAPIKey := os.Getenv("CLUSTER_API_KEY"); envAPIKey != "" {
			cfg.Cluster.APIKey = envAPIKey
		}
		if envAPIKey := os.Getenv("EMBEDDING_API_KEY"); envAPIKey != "" {
			cfg.Embedding.APIKey = envAPIKey
		}

		cfg.applyDefaults()
		cfg.computeDSN()
		return &cfg
	}

	return loadFromEnv()
}

func loadFromEnv() *Config {
	// Minimal configuration when config.yaml is unavailable.
	var cfg Config

	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	cfg.Server.Addr = fmt.Sprintf(":%d", cfg.Server.Port)

	cfg.DB.Driver = getenv("DB_DRIVER", "sqlite")
	cfg.DB.Path = getenv("DB_PATH", "museum.db")
	if username := os.Getenv("DATABASE_USERNAME"); username != "" {
		cfg.DB.Username = username
	}
	if password := os.Getenv("DATABASE_PASSWORD"); password != "" {
		cfg.DB.Password = password
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		cfg.DB.DSN = dsn
	}
	if apiKey := os.Getenv("CLUSTER_API_KEY"); apiKey != "" {
		cfg.Cluster.APIKey = apiKey
	}
	if apiKey := os.Getenv("EMBEDDING_API_KEY"); apiKey != "" {
		cfg.Embedding.APIKey = apiKey
	}

	cfg.applyDefaults()
	if cfg.DB.DSN == "" {
		cfg.computeDSN()
	}

	log.Println("Configuration loaded from environment, some settings may be missing")
	return &cfg
}

// applyDefaults fills in the engine tuning values left unset by the file.
func (cfg *Config) applyDefaults() {
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = "mysql"
	}
	if cfg.Matcher.RouteLength <= 0 {
		cfg.Matcher.RouteLength = 50
	}
	if cfg.CBR.TopK <= 0 {
		cfg.CBR.TopK = 3
	}
	if cfg.CBR.FreqWeight == 0 && cfg.CBR.MatchWeight == 0 && cfg.CBR.PositionWeight == 0 {
		cfg.CBR.FreqWeight = 0.6
		cfg.CBR.MatchWeight = 0.3
		cfg.CBR.PositionWeight = 0.1
	}
	if cfg.CBR.DescThreshold == 0 {
		cfg.CBR.DescThreshold = 0.75
	}
	if cfg.CBR.DescSteepness == 0 {
		cfg.CBR.DescSteepness = 10
	}
	if cfg.CBR.ForgetThreshold == 0 {
		cfg.CBR.ForgetThreshold = 0.2
	}
	if cfg.CF.Alpha == 0 {
		cfg.CF.Alpha = 0.5
	}
	if cfg.CF.Gamma == 0 {
		cfg.CF.Gamma = 1.0
	}
	if cfg.CF.Decay == 0 {
		cfg.CF.Decay = 0.5
	}
	if cfg.CF.Similarity == "" {
		cfg.CF.Similarity = "cosine"
	}
	if cfg.CF.RatingMin == 0 && cfg.CF.RatingMax == 0 {
		cfg.CF.RatingMin = 1
		cfg.CF.RatingMax = 5
	}
	if cfg.Maintenance.IntervalHours <= 0 {
		cfg.Maintenance.IntervalHours = 24
	}
	if cfg.Maintenance.CheckIntervalSec <= 0 {
		cfg.Maintenance.CheckIntervalSec = 60
	}
	if cfg.Maintenance.SampleSeed == 0 {
		cfg.Maintenance.SampleSeed = 1
	}
}

// computeDSN builds the driver DSN from the individual fields.
func (cfg *Config) computeDSN() {
	if cfg.DB.DSN != "" {
		return
	}
	switch cfg.DB.Driver {
	case "sqlite":
		path := cfg.DB.Path
		if path == "" {
			path = "museum.db"
		}
		cfg.DB.DSN = path
	default:
		if cfg.DB.Charset == "" {
			cfg.DB.Charset = "utf8mb4"
		}
		parseTime := ""
		if cfg.DB.ParseTime {
			parseTime = "&parseTime=true"
		}
		cfg.DB.DSN = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s%s",
			cfg.DB.Username,
			cfg.DB.Password,
			cfg.DB.Host,
			cfg.DB.Port,
			cfg.DB.Database,
			cfg.DB.Charset,
			parseTime)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
