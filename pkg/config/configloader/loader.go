package configloader

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	defaultConfigFile = "config.yaml"
	defaultEnvFile    = ".env"
)

type Validator interface {
	Validate() error
}

// Sources describes where configuration is read from, lowest priority first:
// Defaults, ConfigFile, EnvFile, then the process environment.
type Sources struct {
	Defaults   map[string]any
	ConfigFile string
	EnvFile    string
}

// Load reads config.yaml and .env from the working directory.
func Load[T Validator](serviceName string, defaults map[string]any) (T, error) {
	return LoadFrom[T](serviceName, Sources{
		Defaults:   defaults,
		ConfigFile: defaultConfigFile,
		EnvFile:    defaultEnvFile,
	})
}

// LoadFrom loads configuration from the given sources.
// Environment variables are expected as <SERVICE_NAME>_<SECTION>_<KEY>,
// e.g. SHOP_SERVER_PORT maps to server.port.
func LoadFrom[T Validator](serviceName string, src Sources) (T, error) {
	var cfg T
	k := koanf.New(".")
	envPrefix := fmt.Sprintf("%s_", strings.ToUpper(serviceName))

	// 1. Built-in defaults
	if len(src.Defaults) > 0 {
		if err := k.Load(confmap.Provider(src.Defaults, "."), nil); err != nil {
			return cfg, fmt.Errorf("error loading defaults: %w", err)
		}
	}

	// 2. Load configuration from yaml file
	if src.ConfigFile != "" {
		if err := k.Load(file.Provider(src.ConfigFile), yaml.Parser()); err != nil {
			if !os.IsNotExist(err) {
				log.Printf("WARN: error loading YAML config file '%s': %v", src.ConfigFile, err)
			}
		}
	}

	// 3. Load environment variables from .env file
	envTransformer := keyTransformer(envPrefix)
	if src.EnvFile != "" {
		if envFileMap, err := godotenv.Read(src.EnvFile); err == nil {
			envMap := make(map[string]any)
			for key, value := range envFileMap {
				if !strings.HasPrefix(strings.ToUpper(key), envPrefix) {
					continue
				}
				envMap[envTransformer(key)] = value
			}
			if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
				log.Printf("WARN: error loading .env config: %v", err)
			}
		} else if !os.IsNotExist(err) {
			log.Printf("WARN: error reading .env file: %v", err)
		}
	}

	// 4. Load environment variables from the system, the highest priority
	if err := k.Load(env.Provider(envPrefix, ".", envTransformer), nil); err != nil {
		log.Printf("WARN: error loading system env vars: %v", err)
	}

	// 5. Unmarshal the configuration into the Config struct
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// 6. Validate the configuration
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// keyTransformer maps SHOP_SERVER_PORT to server.port.
func keyTransformer(envPrefix string) func(string) string {
	prefix := strings.ToLower(envPrefix)
	return func(key string) string {
		key = strings.ToLower(key)
		key = strings.TrimPrefix(key, prefix)
		return strings.ReplaceAll(key, "_", ".")
	}
}
