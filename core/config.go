package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the resolved application configuration.
type Config struct {
	Env          string
	AppName      string
	Build        string
	Debug        bool
	TestMode     bool
	RollbarToken string

	API struct {
		BaseURL string
		Timeout time.Duration
	}

	Session struct {
		Store  string // memory, file or redis
		Path   string
		Secret string
	}

	Redis struct {
		Addr   string
		DB     int
		Prefix string
	}

	List struct {
		PageSize int
	}

	Mock struct {
		Address            string
		SecretKey          string
		JWTExpirationDelta time.Duration
		DisableReqLogs     bool
	}
}

// NewConfig loads the configuration for the environment named by SCM_ENV.
// It exits the process when a present .env file cannot be loaded.
func NewConfig() *Config {
	conf, err := LoadConfig(os.Getenv("SCM_ENV"), ".")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return conf
}

// LoadConfig resolves defaults, the optional "<dir>/config/.env.<env>" file
// and SCM_* environment variables, in increasing order of precedence.
func LoadConfig(env, dir string) (*Config, error) {
	env = strings.ToUpper(CleanString(env)) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", env == "DEV")
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("appName", "SCM")
	v.SetDefault("build", "dev")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("api.baseURL", "http://localhost:3000")
	v.SetDefault("api.timeout", 20*time.Second)
	v.SetDefault("session.store", "file")
	v.SetDefault("session.path", defaultSessionPath())
	v.SetDefault("session.secret", "b4$w-9qe1)zn!kd=ua&7m2rx(0v#yc*s")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "scm:")
	v.SetDefault("list.pageSize", 10)
	v.SetDefault("mock.address", ":3000")
	v.SetDefault("mock.secretKey", "l7e@x0q!w2rn^c5=hv&t9(bj)m4#szuk")
	v.SetDefault("mock.jwtExpirationDelta", 24*time.Hour)
	v.SetDefault("mock.disableReqLogs", env == "TEST")

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(dir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}

	v.SetEnvPrefix("SCM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := &Config{
		Env:          env,
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		RollbarToken: v.GetString("rollbarToken"),
	}
	conf.API.BaseURL = strings.TrimRight(v.GetString("api.baseURL"), "/")
	conf.API.Timeout = v.GetDuration("api.timeout")
	conf.Session.Store = strings.ToLower(v.GetString("session.store"))
	conf.Session.Path = v.GetString("session.path")
	conf.Session.Secret = v.GetString("session.secret")
	conf.Redis.Addr = v.GetString("redis.addr")
	conf.Redis.DB = v.GetInt("redis.db")
	conf.Redis.Prefix = v.GetString("redis.prefix")
	conf.List.PageSize = v.GetInt("list.pageSize")
	conf.Mock.Address = v.GetString("mock.address")
	conf.Mock.SecretKey = v.GetString("mock.secretKey")
	conf.Mock.JWTExpirationDelta = v.GetDuration("mock.jwtExpirationDelta")
	conf.Mock.DisableReqLogs = v.GetBool("mock.disableReqLogs")

	if conf.List.PageSize <= 0 {
		return nil, NewArgumentError("list.pageSize must be positive")
	}
	return conf, nil
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".scm", "session")
	}
	return filepath.Join(home, ".scm", "session")
}
