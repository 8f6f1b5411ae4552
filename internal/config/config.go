package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"dexSolver/internal/slippage"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL           string
	Protocol         string
	Factory          string
	InitCodeDigest   string
	Tokens           []string
	RelativeSlippage string
	AbsoluteSlippage string
	MaxRetries       int
	RetryBackoff     time.Duration
	PGDSN            string
	Out              string
	LogLevel         string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SOLVER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("protocol", "uniswapv2")
	v.SetDefault("relative-slippage", "0.01")
	v.SetDefault("max-retries", 3)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("out", "./data/competitions.jsonl")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:           v.GetString("rpc"),
		Protocol:         v.GetString("protocol"),
		Factory:          strings.TrimSpace(v.GetString("factory")),
		InitCodeDigest:   strings.TrimSpace(v.GetString("init-code-digest")),
		Tokens:           getStringSlice(v, "tokens"),
		RelativeSlippage: v.GetString("relative-slippage"),
		AbsoluteSlippage: strings.TrimSpace(v.GetString("absolute-slippage")),
		MaxRetries:       v.GetInt("max-retries"),
		RetryBackoff:     v.GetDuration("retry-backoff"),
		PGDSN:            v.GetString("pg-dsn"),
		Out:              v.GetString("out"),
		LogLevel:         v.GetString("log-level"),
	}

	return cfg, nil
}

// Limits parses the configured slippage tolerance.
func (c Config) Limits() (slippage.Limits, error) {
	return slippage.ParseLimits(c.RelativeSlippage, c.AbsoluteSlippage)
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
