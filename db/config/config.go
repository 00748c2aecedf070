package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"
)

// Config holds the node configuration. Fields map one-to-one onto the toml
// config file; anything not present in the file keeps its default.
type Config struct {
	LogLevel string `toml:"log-level"`

	// StatusAddr, if set, serves /metrics and pprof on this address.
	StatusAddr string `toml:"status-addr"`

	// ReplicaSet marks the node as a member of a replica set. Encrypted
	// transactional writes are only supported when this is set.
	ReplicaSet bool   `toml:"replica-set"`
	ElectionID uint64 `toml:"election-id"`

	DBPath string `toml:"db-path"` // Directory to store the data in. Should exist and be writable.

	// Error kinds the transaction executor treats as transient. Names must
	// be known to the transaction package; unknown names fail startup.
	RetryableErrors []string `toml:"retryable-errors"`

	// Engine knobs, passed through to badger.
	SyncWrites     bool  `toml:"sync-writes"`
	ValueThreshold int   `toml:"value-threshold"`
	VlogFileSize   int64 `toml:"vlog-file-size"`
	MaxTableSize   int64 `toml:"max-table-size"`
	NumMemTables   int   `toml:"num-mem-tables"`
	NumL0Tables    int   `toml:"num-l0-tables"`
	NumCompactors  int   `toml:"num-compactors"`
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:   "info",
		ReplicaSet: true,
		ElectionID: 1,
		DBPath:     "/tmp/mongo-data",
		RetryableErrors: []string{
			"write-conflict",
			"stale-routing",
			"lock-timeout",
		},
		SyncWrites:     true,
		ValueThreshold: 256,
		VlogFileSize:   256 * 1024 * 1024,
		MaxTableSize:   64 * 1024 * 1024,
		NumMemTables:   3,
		NumL0Tables:    4,
		NumCompactors:  1,
	}
}

// FromFile loads a config file on top of the defaults.
func FromFile(path string) (*Config, error) {
	conf := NewDefaultConfig()
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return nil, errors.Annotatef(err, "load config %s", path)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return conf, nil
}

func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("db-path must not be empty")
	}
	if c.NumMemTables <= 0 || c.NumL0Tables <= 0 || c.NumCompactors <= 0 {
		return errors.New("engine table and compactor counts must be greater than 0")
	}
	if c.MaxTableSize <= 0 || c.VlogFileSize <= 0 {
		return errors.New("engine file sizes must be greater than 0")
	}
	return nil
}
