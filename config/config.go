package config

import (
	"io"
	"time"

	"binobj/bwire"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

type Config struct {
	LogLevel  string      `mapstructure:"log_level"`
	LogFormat string      `mapstructure:"log_format"`
	Codec     CodecConfig `mapstructure:"codec"`
	HTTP      HTTPConfig  `mapstructure:"http"`
	RPC       RPCConfig   `mapstructure:"rpc"`
	Store     StoreConfig `mapstructure:"store"`
	Bench     BenchConfig `mapstructure:"bench"`
}

type CodecConfig struct {
	MaxEntryLen   int  `mapstructure:"max_entry_len"`
	AllowTrailing bool `mapstructure:"allow_trailing"`
	Tagged        bool `mapstructure:"tagged"`
}

type HTTPConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	MaxBodyBytes   int      `mapstructure:"max_body_bytes"`
	ReadTimeoutMS  int      `mapstructure:"read_timeout_ms"`
	WriteTimeoutMS int      `mapstructure:"write_timeout_ms"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
}

type RPCConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type StoreConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type BenchConfig struct {
	Transport   string `mapstructure:"transport"`
	Sequence    []int  `mapstructure:"sequence"`
	Iterations  int    `mapstructure:"iterations"`
	StringLen   int    `mapstructure:"string_len"`
	Concurrency int    `mapstructure:"concurrency"`
	RateLimit   int    `mapstructure:"rate_limit"`
}

// Codec builds the wire codec described by the [codec] section.
func (c CodecConfig) Codec() (*bwire.ConfiguredCodec, error) {
	if c.MaxEntryLen < 0 || int64(c.MaxEntryLen) > int64(^uint32(0)) {
		return nil, errors.Errorf("max_entry_len %d out of range", c.MaxEntryLen)
	}
	return &bwire.ConfiguredCodec{
		MaxEntryLen:   uint32(c.MaxEntryLen),
		AllowTrailing: c.AllowTrailing,
		Tagged:        c.Tagged,
	}, nil
}

func ReadConfig(r io.Reader) (*Config, error) {
	decoder := toml.NewDecoder(r)
	decoder.SetTagName("mapstructure")
	config := &Config{}
	if err := decoder.Decode(config); err != nil {
		return nil, errors.Wrap(err, "error decoding config file")
	}
	return config, nil
}

func ConvertDuration(base int, unit time.Duration) time.Duration {
	return time.Duration(base) * unit
}
