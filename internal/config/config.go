package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/relabs-tech/bbox_compass/internal/blackbox"
	"github.com/relabs-tech/bbox_compass/internal/rmc"
)

// Config holds the settings that are tied to the machine rather than to a
// single run. Command line flags override them. It is loaded once per run
// and passed down explicitly.
type Config struct {
	// Decoder
	Decoder string // blackbox decoder executable

	// Navigation states
	StatesFile string // optional YAML state name table

	// MQTT
	MQTTBroker   string // empty disables publishing
	MQTTClientID string
	MQTTTopic    string
	MQTTQoS      byte

	// NMEA export
	NMEATalker string
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	return &Config{
		Decoder:      blackbox.DefaultDecoder,
		MQTTClientID: "bbcompass",
		MQTTTopic:    "bbcompass/records",
		NMEATalker:   rmc.DefaultTalker,
	}
}

// Load reads the configuration file on top of Default.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	scanner := bufio.NewScanner(file)
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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	case "DECODER":
		c.Decoder = value
	case "STATES_FILE":
		c.StatesFile = value

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID":
		c.MQTTClientID = value
	case "MQTT_TOPIC":
		c.MQTTTopic = value
	case "MQTT_QOS":
		qos, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MQTT_QOS %q: %w", value, err)
		}
		if qos < 0 || qos > 2 {
			return fmt.Errorf("MQTT_QOS must be 0-2, got %d", qos)
		}
		c.MQTTQoS = byte(qos)

	// NMEA
	case "NMEA_TALKER":
		if len(value) != 2 {
			return fmt.Errorf("NMEA_TALKER must be two characters, got %q", value)
		}
		c.NMEATalker = strings.ToUpper(value)

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// Validate checks that required fields are set.
func (c *Config) Validate() error {
	if c.Decoder == "" {
		return fmt.Errorf("DECODER is required")
	}
	if c.MQTTBroker != "" {
		if c.MQTTTopic == "" {
			return fmt.Errorf("MQTT_TOPIC is required when MQTT_BROKER is set")
		}
		if c.MQTTClientID == "" {
			return fmt.Errorf("MQTT_CLIENT_ID is required when MQTT_BROKER is set")
		}
	}
	return nil
}
