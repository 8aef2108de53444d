package utils

import (
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	CoreCfg   = loadCoreCfg()
	PodConfig = ReadPodConfig("POD_CONFIG")
)

type CoreConfig struct {
	// freshservice
	FreshAddress string
	FreshAPIKey  string

	// public ports
	PublicPort  int
	MetricsPort int
	MetricsPath string

	// logging
	LogStyle string
}

func loadCoreCfg() *CoreConfig {
	// optional .env file, must be read before the first Getenv below,
	// real environment variables win over it
	_ = godotenv.Load()

	c := CoreConfig{}

	// freshservice, e.g. https://yourcompany.freshservice.com
	c.FreshAddress = strings.TrimSuffix(Getenv("FRESH_ADDRESS", ""), "/")
	c.FreshAPIKey = Getenv("FRESH_API_KEY", "")

	c.PublicPort = GetIntEnvOrDefault("PUBLIC_PORT", 8000)
	c.MetricsPort = GetIntEnvOrDefault("METRICS_PORT", 9000)
	c.MetricsPath = Getenv("METRICS_PATH", "/metrics")

	c.LogStyle = Getenv("LOG_STYLE", "plain")
	return &c
}

type podConfig struct {
	cfg map[string]string
}

// ReadPodConfig parses config from env variable in `key1=val1;key2=val2` format.
func ReadPodConfig(envname string) podConfig {
	cfg := make(map[string]string)
	content := Getenv(envname, "")
	if content != "" {
		for _, kv := range strings.Split(content, ";") {
			keyval := strings.SplitN(kv, "=", 2)
			if len(keyval) == 2 {
				cfg[strings.TrimSpace(keyval[0])] = strings.TrimSpace(keyval[1])
			} else {
				// key without value acts as a bool flag
				cfg[strings.TrimSpace(keyval[0])] = "true"
			}
		}
	}
	return podConfig{cfg: cfg}
}

func (pc podConfig) GetString(key string, defval string) string {
	if val, has := pc.cfg[key]; has {
		return val
	}
	return defval
}

func (pc podConfig) GetBool(key string, defval bool) bool {
	if val, has := pc.cfg[key]; has {
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			Log("key", key, "value", val).Warn("Unable to parse bool pod config")
			return defval
		}
		return parsed
	}
	return defval
}

func (pc podConfig) GetInt(key string, defval int) int {
	if val, has := pc.cfg[key]; has {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			Log("key", key, "value", val).Warn("Unable to parse int pod config")
			return defval
		}
		return parsed
	}
	return defval
}

func (pc podConfig) GetInt64(key string, defval int64) int64 {
	if val, has := pc.cfg[key]; has {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			Log("key", key, "value", val).Warn("Unable to parse int64 pod config")
			return defval
		}
		return parsed
	}
	return defval
}
