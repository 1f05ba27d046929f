// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"diet-optimizer/internal/diet"
	"diet-optimizer/internal/logging"
	"diet-optimizer/internal/models"
	"diet-optimizer/internal/solver"
)

const EnvPrefix = "DIET"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Solver   SolverConfig   `mapstructure:"solver"`
	Scenario ScenarioConfig `mapstructure:"scenario"`
	Foods    FoodsConfig    `mapstructure:"foods"`
	Log      LogConfig      `mapstructure:"log"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

type ServerConfig struct {
	Transport string `mapstructure:"transport"`
	Host      string `mapstructure:"host"`
	// Address overrides Host when set.
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
}

type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

type SolverConfig struct {
	Backend    string  `mapstructure:"backend"`
	Tolerance  float64 `mapstructure:"tolerance"`
	GLPSOLPath string  `mapstructure:"glpsol_path"`
}

// ScenarioConfig holds the daily targets. Nil bounds are disabled.
type ScenarioConfig struct {
	Name           string             `mapstructure:"name"`
	Calories       float64            `mapstructure:"calories"`
	MaxNetCarbs    *float64           `mapstructure:"-"`
	MinFiber       *float64           `mapstructure:"-"`
	MinVitaminD    *float64           `mapstructure:"-"`
	MinDailyValues map[string]float64 `mapstructure:"-"`
}

type FoodsConfig struct {
	// File is a YAML or JSON food list; empty selects the built-in catalog.
	File string `mapstructure:"file"`
	// Select restricts the run to these short names.
	Select []string `mapstructure:"select"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type CacheConfig struct {
	Size int `mapstructure:"size"`
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"transport":       "server.transport",
	"host":            "server.host",
	"address":         "server.address",
	"port":            "server.port",
	"db-path":         "storage.db_path",
	"solver":          "solver.backend",
	"tolerance":       "solver.tolerance",
	"glpsol-path":     "solver.glpsol_path",
	"scenario":        "scenario.name",
	"calories":        "scenario.calories",
	"max-net-carbs":   "scenario.max_net_carbs",
	"min-fiber":       "scenario.min_fiber",
	"min-vitamin-d":   "scenario.min_vitamin_d",
	"min-dv":          "scenario.min_daily_values",
	"foods":           "foods.file",
	"select":          "foods.select",
	"log-level":       "log.level",
	"log-development": "log.development",
	"cache-size":      "cache.size",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.transport", "http")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.address", "")
	v.SetDefault("server.port", 8011)
	v.SetDefault("storage.db_path", "diet-optimizer.db")
	v.SetDefault("solver.backend", solver.SimplexName)
	v.SetDefault("solver.tolerance", solver.DefaultTolerance)
	v.SetDefault("solver.glpsol_path", "glpsol")
	v.SetDefault("scenario.name", "default")
	v.SetDefault("scenario.calories", diet.DefaultCalories)
	v.SetDefault("foods.file", "")
	v.SetDefault("foods.select", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("cache.size", 128)
}

// AddFlags registers the configuration flags on fs. Flags left unset do
// not override the config file or environment.
func AddFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to a YAML config file")
	fs.String("transport", "http", "Transport mode: http")
	fs.String("host", "0.0.0.0", "Host address")
	fs.String("address", "", "Address (alias for host)")
	fs.Int("port", 8011, "Port for HTTP transport")
	fs.String("db-path", "diet-optimizer.db", "Run history database path")
	fs.String("solver", solver.SimplexName, "LP backend (simplex, glpk)")
	fs.Float64("tolerance", solver.DefaultTolerance, "Simplex tolerance")
	fs.String("glpsol-path", "glpsol", "Path to the glpsol executable")
	fs.String("scenario", "default", "Scenario name")
	fs.Float64("calories", diet.DefaultCalories, "Daily calorie budget (kcal)")
	fs.Float64("max-net-carbs", 0, "Maximum net carbohydrate per day (g)")
	fs.Float64("min-fiber", 0, "Minimum dietary fiber per day (g)")
	fs.Float64("min-vitamin-d", 0, "Minimum vitamin D per day (%DV)")
	fs.StringToString("min-dv", nil, "Minimum daily values, e.g. calcium=100,iron=100 (%DV)")
	fs.String("foods", "", "Food list file (YAML or JSON); built-in foods when empty")
	fs.StringSlice("select", nil, "Only use these foods (short names)")
	fs.String("log-level", "info", "Log level: info, debug or trace")
	fs.Bool("log-development", false, "Human-readable development logging")
	fs.Int("cache-size", 128, "Optimization result cache entries")
}

// Load reads .env, the optional config file, DIET_* environment
// variables and flags, in increasing precedence. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configFile := ""
	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
		if f := fs.Lookup("config"); f != nil {
			configFile = f.Value.String()
		}
	}
	if configFile == "" {
		configFile = v.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	var err error
	if cfg.Scenario.MaxNetCarbs, err = optionalFloat(v, "scenario.max_net_carbs"); err != nil {
		return nil, err
	}
	if cfg.Scenario.MinFiber, err = optionalFloat(v, "scenario.min_fiber"); err != nil {
		return nil, err
	}
	if cfg.Scenario.MinVitaminD, err = optionalFloat(v, "scenario.min_vitamin_d"); err != nil {
		return nil, err
	}
	if cfg.Scenario.MinDailyValues, err = floatMap(v, "scenario.min_daily_values"); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func optionalFloat(v *viper.Viper, key string) (*float64, error) {
	if !v.IsSet(key) {
		return nil, nil
	}
	raw := strings.TrimSpace(v.GetString(key))
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return &f, nil
}

func floatMap(v *viper.Viper, key string) (map[string]float64, error) {
	if !v.IsSet(key) {
		return nil, nil
	}
	raw := v.GetStringMapString(key)
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(raw))
	for k, s := range raw {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s.%s %q: %w", key, k, s, err)
		}
		out[k] = f
	}
	return out, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Transport != "http" {
		errs = append(errs, fmt.Errorf("server.transport must be http, got %q", c.Server.Transport))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port))
	}
	if strings.TrimSpace(c.Solver.Backend) == "" {
		errs = append(errs, errors.New("solver.backend must not be empty"))
	}
	if c.Solver.Tolerance <= 0 || c.Solver.Tolerance >= 1 {
		errs = append(errs, fmt.Errorf("solver.tolerance must be in (0, 1), got %g", c.Solver.Tolerance))
	}
	if !nonNegative(c.Scenario.Calories) {
		errs = append(errs, fmt.Errorf("scenario.calories must be a non-negative number, got %g", c.Scenario.Calories))
	}
	for key, p := range map[string]*float64{
		"scenario.max_net_carbs": c.Scenario.MaxNetCarbs,
		"scenario.min_fiber":     c.Scenario.MinFiber,
		"scenario.min_vitamin_d": c.Scenario.MinVitaminD,
	} {
		if p != nil && !nonNegative(*p) {
			errs = append(errs, fmt.Errorf("%s must be a non-negative number, got %g", key, *p))
		}
	}
	for _, k := range sortedKeys(c.Scenario.MinDailyValues) {
		n, err := models.ParseNutrient(k)
		if err != nil {
			errs = append(errs, fmt.Errorf("scenario.min_daily_values: %w", err))
			continue
		}
		if !n.PercentDailyValue() {
			errs = append(errs, fmt.Errorf("scenario.min_daily_values: %s is not labeled in %%DV", k))
		}
		if v := c.Scenario.MinDailyValues[k]; !nonNegative(v) {
			errs = append(errs, fmt.Errorf("scenario.min_daily_values.%s must be a non-negative number, got %g", k, v))
		}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Cache.Size < 0 {
		errs = append(errs, fmt.Errorf("cache.size must not be negative, got %d", c.Cache.Size))
	}
	return errors.Join(errs...)
}

// HostAddr is the host the server listens on.
func (c *Config) HostAddr() string {
	if c.Server.Address != "" {
		return c.Server.Address
	}
	return c.Server.Host
}

// ToScenario converts the scenario section into optimizer targets.
// min_vitamin_d is shorthand for min_daily_values.vitamin_d.
func (c *Config) ToScenario() (diet.Scenario, error) {
	sc := diet.Scenario{
		Name:        c.Scenario.Name,
		Calories:    c.Scenario.Calories,
		MaxNetCarbs: c.Scenario.MaxNetCarbs,
		MinFiber:    c.Scenario.MinFiber,
	}
	if len(c.Scenario.MinDailyValues) > 0 || c.Scenario.MinVitaminD != nil {
		sc.MinDailyValues = make(map[models.Nutrient]float64)
	}
	for _, k := range sortedKeys(c.Scenario.MinDailyValues) {
		n, err := models.ParseNutrient(k)
		if err != nil {
			return diet.Scenario{}, fmt.Errorf("scenario.min_daily_values: %w", err)
		}
		sc.MinDailyValues[n] = c.Scenario.MinDailyValues[k]
	}
	if c.Scenario.MinVitaminD != nil {
		if _, dup := sc.MinDailyValues[models.VitaminD]; dup {
			return diet.Scenario{}, errors.New("scenario.min_vitamin_d conflicts with scenario.min_daily_values.vitamin_d")
		}
		sc.MinDailyValues[models.VitaminD] = *c.Scenario.MinVitaminD
	}
	return sc, nil
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
