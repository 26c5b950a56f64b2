package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDView     string
	MQTTClientIDProducer string

	// Topics
	TopicAttitude     string
	TopicHeading      string
	TopicAcceleration string
	TopicStrategy     string

	// Bearing
	BearingSource   string // "api" or "gps"
	BearingAPIHost  string
	BearingAPIKey   string
	BearingLocation string

	// GPS
	GPSSerialPort string
	GPSBaudRate   int

	// View
	ViewportWidth    float64
	ViewportHeight   float64
	HeadingStrategy  string // name or selector index
	HeadingFilterDeg float64
	RelativeAttitude bool
	POIFile          string

	// Timing
	SampleInterval     int // milliseconds
	ConsoleLogInterval int // milliseconds

	// Web Server
	WebServerPort int
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: only reachable through InitGlobal and Get.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: write lock for initialization, read lock for Get().
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Defaults returns a Config with every optional value filled in.
func Defaults() *Config {
	return &Config{
		MQTTBroker:           "tcp://localhost:1883",
		MQTTClientIDView:     "view360-view",
		MQTTClientIDProducer: "view360-producer-mock",

		TopicAttitude:     "view360/attitude",
		TopicHeading:      "view360/heading",
		TopicAcceleration: "view360/acceleration",
		TopicStrategy:     "view360/strategy",

		BearingSource:   "api",
		BearingAPIHost:  "http://muslimsalat.com",
		BearingLocation: "",

		GPSBaudRate: 9600,

		ViewportWidth:    320,
		ViewportHeight:   480,
		HeadingStrategy:  "raw",
		HeadingFilterDeg: 1,

		SampleInterval:     100,
		ConsoleLogInterval: 1000,

		WebServerPort: 8080,
	}
}

// Load reads the configuration file and returns a Config struct. Keys not
// present keep their defaults.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads KEY=VALUE lines from r.
func Parse(r io.Reader) (*Config, error) {
	cfg := Defaults()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_VIEW":
		c.MQTTClientIDView = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value

	// Topics
	case "TOPIC_ATTITUDE":
		c.TopicAttitude = value
	case "TOPIC_HEADING":
		c.TopicHeading = value
	case "TOPIC_ACCELERATION":
		c.TopicAcceleration = value
	case "TOPIC_STRATEGY":
		c.TopicStrategy = value

	// Bearing
	case "BEARING_SOURCE":
		if value != "api" && value != "gps" {
			return fmt.Errorf("BEARING_SOURCE must be api or gps, got %q", value)
		}
		c.BearingSource = value
	case "BEARING_API_HOST":
		c.BearingAPIHost = value
	case "BEARING_API_KEY":
		c.BearingAPIKey = value
	case "BEARING_LOCATION":
		c.BearingLocation = value

	// GPS
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE: %w", err)
		}
		c.GPSBaudRate = rate

	// View
	case "VIEWPORT_WIDTH":
		w, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		c.ViewportWidth = w
	case "VIEWPORT_HEIGHT":
		h, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		c.ViewportHeight = h
	case "HEADING_STRATEGY":
		c.HeadingStrategy = value
	case "HEADING_FILTER_DEG":
		deg, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid HEADING_FILTER_DEG: %w", err)
		}
		if deg < 0 || deg >= 180 {
			return fmt.Errorf("HEADING_FILTER_DEG must be in [0, 180), got %v", deg)
		}
		c.HeadingFilterDeg = deg
	case "RELATIVE_ATTITUDE":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid RELATIVE_ATTITUDE: %w", err)
		}
		c.RelativeAttitude = b
	case "POI_FILE":
		c.POIFile = value

	// Timing
	case "SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_INTERVAL: %w", err)
		}
		c.SampleInterval = interval
	case "CONSOLE_LOG_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CONSOLE_LOG_INTERVAL: %w", err)
		}
		c.ConsoleLogInterval = interval

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT: %w", err)
		}
		c.WebServerPort = port

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func parsePositive(key, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", key, v)
	}
	return v, nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.BearingSource == "gps" {
		if c.GPSSerialPort == "" {
			return fmt.Errorf("GPS_SERIAL_PORT is required when BEARING_SOURCE=gps")
		}
		if c.GPSBaudRate == 0 {
			return fmt.Errorf("GPS_BAUD_RATE is required when BEARING_SOURCE=gps")
		}
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("SAMPLE_INTERVAL must be positive")
	}
	if c.ConsoleLogInterval <= 0 {
		return fmt.Errorf("CONSOLE_LOG_INTERVAL must be positive")
	}
	if c.WebServerPort <= 0 || c.WebServerPort > 65535 {
		return fmt.Errorf("WEB_SERVER_PORT out of range: %d", c.WebServerPort)
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
