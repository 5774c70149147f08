package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// EnvFile names the variable holding the config file path.
const EnvFile = "TRILOGIC_CONFIG"

// hclFile is the decoded shape of a trilogic.hcl file. Every setting is
// optional.
type hclFile struct {
	Problems       string   `hcl:"problems,optional"`
	RecorderBuffer int      `hcl:"recorder_buffer,optional"`
	DB             *hclDB   `hcl:"db,block"`
	HTTP           *hclHTTP `hcl:"http,block"`
}

type hclDB struct {
	Driver string `hcl:"driver,optional"`
	DSN    string `hcl:"dsn,optional"`
}

type hclHTTP struct {
	Addr           string   `hcl:"addr,optional"`
	CORSOrigins    []string `hcl:"cors_origins,optional"`
	RequestTimeout string   `hcl:"request_timeout,optional"`
	JWTSecret      string   `hcl:"jwt_secret,optional"`
}

// LoadFile reads an HCL config file and overlays the settings it sets on
// base.
func LoadFile(path string, base Config) (Config, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return base, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(f.Body, nil, &parsed); diags.HasErrors() {
		return base, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}
	return parsed.apply(base)
}

func (f hclFile) apply(cfg Config) (Config, error) {
	if f.Problems != "" {
		cfg.ProblemsPath = f.Problems
	}
	if f.RecorderBuffer != 0 {
		cfg.RecorderBuffer = f.RecorderBuffer
	}
	if f.DB != nil {
		if f.DB.Driver != "" {
			cfg.DBDriver = f.DB.Driver
		}
		if f.DB.DSN != "" {
			cfg.DBDSN = f.DB.DSN
		}
	}
	if f.HTTP != nil {
		if f.HTTP.Addr != "" {
			cfg.HTTP.Addr = f.HTTP.Addr
		}
		if len(f.HTTP.CORSOrigins) > 0 {
			cfg.HTTP.CORSOrigins = f.HTTP.CORSOrigins
		}
		if f.HTTP.JWTSecret != "" {
			cfg.HTTP.JWTSecret = f.HTTP.JWTSecret
		}
		if f.HTTP.RequestTimeout != "" {
			d, err := time.ParseDuration(f.HTTP.RequestTimeout)
			if err != nil {
				return cfg, fmt.Errorf("http request_timeout: %w", err)
			}
			cfg.HTTP.RequestTimeout = d
		}
	}
	return cfg, nil
}
