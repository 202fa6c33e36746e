// Package config loads device connection settings from YAML.
//
//	endpoint:
//	  host: broker.example.com
//	  port: 8883
//	credentials:
//	  rootCA: certs/root-ca.pem
//	  cert: certs/device.pem
//	  key: certs/device.key
//	clientId: thermostat-7
//	verifyHostname: true
//	connectTimeout: 10s
//	ioTimeout: 5s
//	tlsMinVersion: "1.2"
//	capture: device.scap
//
// Relative paths are resolved against the directory of the file.
package config

import (
	"crypto/tls"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shadowlink/shadowlink-go/pkg/transport"
)

// Defaults.
const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultIOTimeout      = 5 * time.Second
)

// Config describes how a device reaches its broker.
type Config struct {
	Endpoint    Endpoint    `yaml:"endpoint"`
	Credentials Credentials `yaml:"credentials"`

	// ClientID names the device in client tokens.
	ClientID string `yaml:"clientId"`

	// VerifyHostname defaults to true when omitted.
	VerifyHostname *bool `yaml:"verifyHostname,omitempty"`

	ConnectTimeout time.Duration `yaml:"connectTimeout,omitempty"`
	IOTimeout      time.Duration `yaml:"ioTimeout,omitempty"`

	// TLSMinVersion is "1.2" or "1.3" (default "1.2").
	TLSMinVersion string `yaml:"tlsMinVersion,omitempty"`

	// Capture is an optional capture file path.
	Capture string `yaml:"capture,omitempty"`
}

// Endpoint is the broker address.
type Endpoint struct {
	Host string `yaml:"host"`
	Port uint16 `yaml:"port,omitempty"`
}

// Credentials are PEM file paths.
type Credentials struct {
	RootCA string `yaml:"rootCA"`
	Cert   string `yaml:"cert"`
	Key    string `yaml:"key"`
}

// LoadError describes a configuration that could not be loaded.
type LoadError struct {
	// File is the path to the file that failed to load (may be empty).
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.File != "" {
		return e.File + ": " + msg
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Cause }

// Parse decodes YAML, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &LoadError{Message: "failed to parse YAML", Cause: err}
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads and parses path. Relative credential and capture paths are
// resolved against the directory of path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	cfg, err := Parse(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{File: path, Message: err.Error()}
	}

	dir := filepath.Dir(path)
	cfg.Credentials.RootCA = resolve(dir, cfg.Credentials.RootCA)
	cfg.Credentials.Cert = resolve(dir, cfg.Credentials.Cert)
	cfg.Credentials.Key = resolve(dir, cfg.Credentials.Key)
	cfg.Capture = resolve(dir, cfg.Capture)
	return cfg, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func (c *Config) applyDefaults() {
	if c.Endpoint.Port == 0 {
		c.Endpoint.Port = transport.DefaultPort
	}
	if c.VerifyHostname == nil {
		verify := true
		c.VerifyHostname = &verify
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.IOTimeout == 0 {
		c.IOTimeout = DefaultIOTimeout
	}
	if c.TLSMinVersion == "" {
		c.TLSMinVersion = "1.2"
	}
}

// Validate checks that every required field is present.
func (c *Config) Validate() error {
	switch {
	case c.Endpoint.Host == "":
		return &LoadError{Message: "endpoint.host is required"}
	case c.Credentials.RootCA == "":
		return &LoadError{Message: "credentials.rootCA is required"}
	case c.Credentials.Cert == "":
		return &LoadError{Message: "credentials.cert is required"}
	case c.Credentials.Key == "":
		return &LoadError{Message: "credentials.key is required"}
	case c.ConnectTimeout < 0:
		return &LoadError{Message: "connectTimeout must not be negative"}
	case c.IOTimeout < 0:
		return &LoadError{Message: "ioTimeout must not be negative"}
	}
	if _, err := c.minVersion(); err != nil {
		return &LoadError{Message: err.Error()}
	}
	return nil
}

func (c *Config) minVersion() (uint16, error) {
	switch c.TLSMinVersion {
	case "", "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("tlsMinVersion %q is not 1.2 or 1.3", c.TLSMinVersion)
	}
}

// Verify reports the effective hostname verification setting.
func (c *Config) Verify() bool {
	return c.VerifyHostname == nil || *c.VerifyHostname
}

// ConnectParams returns the connect parameters for the configured endpoint.
func (c *Config) ConnectParams() transport.ConnectParams {
	return transport.ConnectParams{
		Host:           c.Endpoint.Host,
		Port:           c.Endpoint.Port,
		RootCAPath:     c.Credentials.RootCA,
		DeviceCertPath: c.Credentials.Cert,
		DeviceKeyPath:  c.Credentials.Key,
		VerifyHostname: c.Verify(),
		Timeout:        c.ConnectTimeout,
	}
}

// TransportConfig returns the TLS context settings.
func (c *Config) TransportConfig() transport.Config {
	v, _ := c.minVersion()
	return transport.Config{MinVersion: v}
}
