package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// RPCEnv is the environment variable holding the RPC endpoint URL.
	RPCEnv = "MAINNET_RPC"

	DefaultFromBlock uint64 = 20045981
	DefaultBatchSize uint64 = 10000
	DefaultOutDir           = "./test/migration"
	DefaultEnvFile          = ".env"
)

// DefaultVaults are the vault contracts scanned when no --vault is given.
var DefaultVaults = []string{
	"0xBEEF69Ac7870777598A04B2bd4771c71212E6aBc",
	"0x84631c0d0081FDe56DeB72F6DE77abBbF6A9f93a",
	"0x5fD13359Ba15A84B76f7F87568309040176167cd",
	"0x7a4EffD87C2f3C55CA251080b1343b605f327E3a",
	"0x49cd586dd9BA227Be9654C735A659a1dB08232a9",
	"0x82dc3260f599f4fC4307209A1122B6eAa007163b",
	"0xd6E09a5e6D719d1c881579C9C8670a210437931b",
	"0x8c9532a60E0E7C6BbD2B2c1303F63aCE1c3E9811",
	"0x7b31F008c48EFb65da78eA0f255EE424af855249",
	"0x4f3Cc6359364004b245ad5bE36E6ad4e805dC961",
}

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL    string
	FromBlock uint64
	ToBlock   uint64
	Vaults    []string
	BatchSize uint64
	OutDir    string
	Checksum  bool
	JSONL     string
	CSVDir    string
	PGDSN     string
	LogLevel  string
}

// Load merges config file, environment variables, flags and an optional
// dotenv file into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("USERSGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("rpc", RPCEnv); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}

	v.SetDefault("from", DefaultFromBlock)
	v.SetDefault("batch-size", DefaultBatchSize)
	v.SetDefault("vault", DefaultVaults)
	v.SetDefault("out-dir", DefaultOutDir)
	v.SetDefault("env-file", DefaultEnvFile)
	v.SetDefault("checksum", false)
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

	dotenv, err := readDotEnv(v.GetString("env-file"))
	if err != nil {
		return Config{}, err
	}
	if rpcURL := dotenv[strings.ToLower(RPCEnv)]; rpcURL != "" && v.GetString("rpc") == "" {
		v.Set("rpc", rpcURL)
	}

	cfg := Config{
		RPCURL:    strings.TrimSpace(v.GetString("rpc")),
		FromBlock: v.GetUint64("from"),
		ToBlock:   v.GetUint64("to"),
		Vaults:    getStringSlice(v, "vault"),
		BatchSize: v.GetUint64("batch-size"),
		OutDir:    v.GetString("out-dir"),
		Checksum:  v.GetBool("checksum"),
		JSONL:     v.GetString("jsonl"),
		CSVDir:    v.GetString("csv-dir"),
		PGDSN:     v.GetString("pg-dsn"),
		LogLevel:  v.GetString("log-level"),
	}
	if len(cfg.Vaults) == 0 {
		cfg.Vaults = append([]string(nil), DefaultVaults...)
	}

	return cfg, nil
}

// readDotEnv parses a KEY=value file. A missing file yields an empty map.
func readDotEnv(path string) (map[string]string, error) {
	out := make(map[string]string)
	if path == "" {
		return out, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("stat env file: %w", err)
	}

	env := viper.New()
	env.SetConfigFile(path)
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read env file: %w", err)
	}
	for _, key := range env.AllKeys() {
		out[key] = env.GetString(key)
	}
	return out, nil
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
