package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config interface {
}

type MarketplaceConfig interface {
}

// SourceConfig -- откуда берётся локальный каталог (архив с выгрузкой).
type SourceConfig struct {
	ArchiveURL   string `yaml:"archive_url"`
	HeaderOffset int    `yaml:"header_offset"`
	// ZeroFillMissing: SKU, пропавшие из выгрузки, считаются
	// закончившимися и обнуляются на маркетплейсе.
	ZeroFillMissing bool `yaml:"zero_fill_missing"`
}

type OzonConfig struct {
	Enabled  bool   `yaml:"enabled"`
	ApiURL   string `yaml:"api_url"`
	ClientID string `yaml:"client_id"`
	ApiKey   string `yaml:"api_key"`
}

// CampaignConfig -- пара кампания/склад Яндекс Маркета для одной
// модели размещения.
type CampaignConfig struct {
	CampaignID  string `yaml:"campaign_id"`
	WarehouseID int64  `yaml:"warehouse_id"`
}

type YandexConfig struct {
	Enabled bool           `yaml:"enabled"`
	ApiURL  string         `yaml:"api_url"`
	Token   string         `yaml:"token"`
	FBS     CampaignConfig `yaml:"fbs"`
	DBS     CampaignConfig `yaml:"dbs"`
}

// DispatchConfig -- общие параметры отправки батчей.
type DispatchConfig struct {
	MaxAttempts        int `yaml:"max_attempts"`
	InitialBackoffMs   int `yaml:"initial_backoff_ms"`
	MinBatchIntervalMs int `yaml:"min_batch_interval_ms"`
}

type AppConfig struct {
	Source       SourceConfig    `yaml:"source"`
	Ozon         OzonConfig      `yaml:"ozon"`
	YandexMarket YandexConfig    `yaml:"yandex_market"`
	Dispatch     DispatchConfig  `yaml:"dispatch"`
	Postgres     *PostgresConfig `yaml:"postgres"`
	MetricsAddr  string          `yaml:"metrics_addr"`
}

func LoadConfig(filename string) (*AppConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	config := &AppConfig{}
	if err := decoder.Decode(config); err != nil {
		return nil, err
	}
	config.applyEnv()
	config.applyDefaults()
	return config, nil
}

// applyEnv перекрывает секреты значениями из окружения, чтобы ключи
// не жили в yaml. Имена переменных исторические.
func (c *AppConfig) applyEnv() {
	c.Ozon.ClientID = getEnv("CLIENT_ID", c.Ozon.ClientID)
	c.Ozon.ApiKey = getEnv("SELLER_TOKEN", c.Ozon.ApiKey)
	c.YandexMarket.Token = getEnv("MARKET_TOKEN", c.YandexMarket.Token)
	c.YandexMarket.FBS.CampaignID = getEnv("FBS_ID", c.YandexMarket.FBS.CampaignID)
	c.YandexMarket.DBS.CampaignID = getEnv("DBS_ID", c.YandexMarket.DBS.CampaignID)
}

func (c *AppConfig) applyDefaults() {
	if c.Dispatch.MaxAttempts <= 0 {
		c.Dispatch.MaxAttempts = 3
	}
	if c.Dispatch.InitialBackoffMs <= 0 {
		c.Dispatch.InitialBackoffMs = 1000
	}
	if c.Dispatch.MinBatchIntervalMs < 0 {
		c.Dispatch.MinBatchIntervalMs = 0
	}
	if c.Source.HeaderOffset < 0 {
		c.Source.HeaderOffset = 0
	}
}
