// File: control/config.go
// Author: momentics <momentics@gmail.com>
//
// TOML-backed static configuration. Pool sizes, counts and channel
// capacities are supplied once at creation time; Build materializes them
// into a pool registry and a named channel set.

package control

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/momentics/primkit/api"
	"github.com/momentics/primkit/channel"
	"github.com/momentics/primkit/pool"
)

// PoolConfig describes one fixed-block pool.
type PoolConfig struct {
	Name        string `toml:"name"`
	BlockSize   int    `toml:"block_size"`
	BlockCount  int    `toml:"block_count"`
	MemoryClass string `toml:"memory_class"`
}

// ChannelConfig describes one bounded channel.
type ChannelConfig struct {
	Name        string `toml:"name"`
	Capacity    int    `toml:"capacity"`
	MessageSize int    `toml:"message_size"`
}

// Config is the root configuration document.
type Config struct {
	Pools    []PoolConfig    `toml:"pool"`
	Channels []ChannelConfig `toml:"channel"`
}

// Load parses a TOML configuration file.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("control: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadString parses TOML from a string; used by tests and embedded defaults.
func LoadString(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("control: decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects malformed or duplicate declarations before any backing
// memory is reserved.
func (c *Config) Validate() error {
	seen := make(map[string]bool)
	for _, pc := range c.Pools {
		if pc.Name == "" || pc.BlockSize <= 0 || pc.BlockCount <= 0 {
			return api.NewError(api.ErrCodeInvalidArgument, "control: malformed pool entry").
				WithContext("name", pc.Name)
		}
		if seen["p:"+pc.Name] {
			return api.NewError(api.ErrCodeInvalidArgument, "control: duplicate pool name").
				WithContext("name", pc.Name)
		}
		seen["p:"+pc.Name] = true
	}
	for _, cc := range c.Channels {
		if cc.Name == "" || cc.Capacity <= 0 || cc.MessageSize <= 0 {
			return api.NewError(api.ErrCodeInvalidArgument, "control: malformed channel entry").
				WithContext("name", cc.Name)
		}
		if seen["c:"+cc.Name] {
			return api.NewError(api.ErrCodeInvalidArgument, "control: duplicate channel name").
				WithContext("name", cc.Name)
		}
		seen["c:"+cc.Name] = true
	}
	return nil
}

// Build reserves every configured pool and channel. On any failure the
// already-built pools are torn down and the error reported; partially
// built systems never escape.
func (c *Config) Build() (*pool.Registry, map[string]*channel.Channel, error) {
	reg := pool.NewRegistry()
	for _, pc := range c.Pools {
		p, err := pool.New(pool.Config{
			Name:       pc.Name,
			BlockSize:  pc.BlockSize,
			BlockCount: pc.BlockCount,
			Class:      pool.MemoryClass(pc.MemoryClass),
		})
		if err != nil {
			reg.CloseAll()
			return nil, nil, err
		}
		if err := reg.Register(p); err != nil {
			p.Close()
			reg.CloseAll()
			return nil, nil, err
		}
	}
	channels := make(map[string]*channel.Channel, len(c.Channels))
	for _, cc := range c.Channels {
		ch, err := channel.New(cc.Capacity, cc.MessageSize)
		if err != nil {
			reg.CloseAll()
			return nil, nil, err
		}
		channels[cc.Name] = ch
	}
	return reg, channels, nil
}
