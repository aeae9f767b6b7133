package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port               int               `json:"port"`
	LogConfig          logger.LogConfig  `json:"log_config"`
	ReadOnly           bool              `json:"read_only"`
	MaxRetrieve        int               `json:"max_retrieve"`
	TemperatureDefault float32           `json:"temperature_default"`
	IncludeSources     bool              `json:"include_sources"`
	ChunkSize          int               `json:"chunk_size"`
	ChunkOverlap       int               `json:"chunk_overlap"`
	WriteRateLimitSecs int               `json:"write_rate_limit_secs"`
	VectorStore        VectorStoreConfig `json:"vector_store"`
	DocStore           DocStoreConfig    `json:"doc_store"`
	AI                 AIConfig          `json:"ai"`
	IngestWatch        IngestWatchConfig `json:"ingest_watch"`
}

type VectorStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type DocStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// GenerateTarget is one entry of the ordered generation fallback chain.
type GenerateTarget struct {
	Provider string      `json:"provider"`
	Model    string      `json:"model"`
	Data     interface{} `json:"data"`
}

type EmbedTarget struct {
	Provider string      `json:"provider"`
	Model    string      `json:"model"`
	Data     interface{} `json:"data"`
}

type AIConfig struct {
	Generate           []GenerateTarget `json:"generate"`
	Embed              EmbedTarget      `json:"embed"`
	Timeout            int              `json:"timeout"`
	EmbedCacheSize     int              `json:"embed_cache_size"`
	EmbedCacheTTLHours int              `json:"embed_cache_ttl_hours"`
}

type IngestWatchConfig struct {
	Dir  string `json:"dir"`
	Cron string `json:"cron"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.MaxRetrieve == 0 {
		cfg.MaxRetrieve = 6
	}
	if cfg.TemperatureDefault == 0 {
		cfg.TemperatureDefault = 0.2
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = 800
	}
	if cfg.ChunkOverlap == 0 {
		cfg.ChunkOverlap = 120
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("chunk_overlap must be smaller than chunk_size")
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "file"
		if cfg.VectorStore.Data == nil {
			cfg.VectorStore.Data = map[string]interface{}{"dir": "vector_store"}
		}
	}
	if cfg.DocStore.Type == "" {
		cfg.DocStore.Type = "local"
		if cfg.DocStore.Data == nil {
			cfg.DocStore.Data = map[string]interface{}{"dir": "data/raw_docs"}
		}
	}
	if cfg.AI.Embed.Provider == "" {
		return nil, fmt.Errorf("ai.embed.provider is required")
	}
	if cfg.AI.Embed.Model == "" {
		return nil, fmt.Errorf("ai.embed.model is required")
	}
	for i, target := range cfg.AI.Generate {
		if target.Provider == "" || target.Model == "" {
			return nil, fmt.Errorf("ai.generate[%d] requires provider and model", i)
		}
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 30
	}
	if cfg.AI.EmbedCacheSize == 0 {
		cfg.AI.EmbedCacheSize = 4096
	}
	if cfg.AI.EmbedCacheTTLHours == 0 {
		cfg.AI.EmbedCacheTTLHours = 2
	}
	if cfg.IngestWatch.Cron == "" {
		cfg.IngestWatch.Cron = "*/5 * * * *"
	}
	return &cfg, nil
}
