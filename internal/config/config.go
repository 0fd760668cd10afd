// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/relabs-tech/envmeter/internal/gauge"
)

// ErrDegenerateRange is returned when a meter range has MIN == MAX.
var ErrDegenerateRange = errors.New("meter range MIN and MAX must differ")

// Range is a meter input range in measurement units.
type Range struct {
	Min float64
	Max float64
}

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDStation  string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDDisplay  string

	// Topics
	TopicEnv        string
	TopicEnvStation string

	// Sensor
	SensorSource   string // "bme280" or "mock"
	BMEI2CBus      string
	BMEI2CAddr     uint16
	BMETempOSR     byte // 0=off, 1..5 = 1x..16x
	BMEPressureOSR byte
	BMEHumidityOSR byte
	BMEIIRFilter   byte // 0=off, 1..4 = 2..16

	SampleInterval int // milliseconds

	// Weather station (NMEA over serial)
	StationSerialPort string
	StationBaudRate   int

	// Display
	DisplayI2CBus         string
	DisplaySource         string // "sensor" or "mqtt"
	DisplayUpdateInterval int    // milliseconds

	// Meters
	MeterSegments       int
	MeterTempScheme     gauge.Scheme
	MeterHumidityScheme gauge.Scheme
	MeterPressureScheme gauge.Scheme
	TempRange           Range // °C
	HumidityRange       Range // %RH
	PressureRange       Range // hPa

	// Serial diagnostics
	DiagSerialPort string
	DiagBaudRate   int

	// Web Server
	WebServerPort int
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Defaults returns the configuration used for keys missing from the file.
func Defaults() *Config {
	return &Config{
		MQTTBroker:           "tcp://localhost:1883",
		MQTTClientIDProducer: "envmeter-producer",
		MQTTClientIDStation:  "envmeter-station",
		MQTTClientIDConsole:  "envmeter-console",
		MQTTClientIDWeb:      "envmeter-web",
		MQTTClientIDDisplay:  "envmeter-display",

		TopicEnv:        "envmeter/env",
		TopicEnvStation: "envmeter/env/station",

		SensorSource:   "bme280",
		BMEI2CBus:      "",
		BMEI2CAddr:     0x76,
		BMETempOSR:     3,
		BMEPressureOSR: 3,
		BMEHumidityOSR: 3,
		BMEIIRFilter:   0,

		SampleInterval: 1000,

		StationBaudRate: 4800,

		DisplaySource:         "sensor",
		DisplayUpdateInterval: 1000,

		MeterSegments:       30,
		MeterTempScheme:     gauge.SchemeBlueToRed,
		MeterHumidityScheme: gauge.SchemeRedToGreen,
		MeterPressureScheme: gauge.SchemeRainbow,
		TempRange:           Range{Min: -10, Max: 50},
		HumidityRange:       Range{Min: 0, Max: 100},
		PressureRange:       Range{Min: 900, Max: 1100},

		DiagBaudRate: 115200,

		WebServerPort: 8080,
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads KEY=VALUE lines on top of Defaults.
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
	var err error
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_STATION":
		c.MQTTClientIDStation = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_ENV":
		c.TopicEnv = value
	case "TOPIC_ENV_STATION":
		c.TopicEnvStation = value

	// Sensor
	case "SENSOR_SOURCE":
		if value != "bme280" && value != "mock" {
			return fmt.Errorf("SENSOR_SOURCE must be bme280 or mock, got %q", value)
		}
		c.SensorSource = value
	case "BME_I2C_BUS":
		c.BMEI2CBus = value
	case "BME_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid BME_I2C_ADDR %q: %w", value, err)
		}
		if addr != 0x76 && addr != 0x77 {
			return fmt.Errorf("BME_I2C_ADDR must be 0x76 or 0x77, got %#x", addr)
		}
		c.BMEI2CAddr = uint16(addr)
	case "BME_TEMP_OSR":
		c.BMETempOSR, err = parseByte(key, value, 5)
	case "BME_PRESSURE_OSR":
		c.BMEPressureOSR, err = parseByte(key, value, 5)
	case "BME_HUMIDITY_OSR":
		c.BMEHumidityOSR, err = parseByte(key, value, 5)
	case "BME_IIR_FILTER":
		c.BMEIIRFilter, err = parseByte(key, value, 4)
	case "SAMPLE_INTERVAL":
		c.SampleInterval, err = parseInt(key, value)

	// Weather station
	case "STATION_SERIAL_PORT":
		c.StationSerialPort = value
	case "STATION_BAUD_RATE":
		c.StationBaudRate, err = parseInt(key, value)

	// Display
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_SOURCE":
		if value != "sensor" && value != "mqtt" {
			return fmt.Errorf("DISPLAY_SOURCE must be sensor or mqtt, got %q", value)
		}
		c.DisplaySource = value
	case "DISPLAY_UPDATE_INTERVAL":
		c.DisplayUpdateInterval, err = parseInt(key, value)

	// Meters
	case "METER_SEGMENTS":
		c.MeterSegments, err = parseInt(key, value)
	case "METER_TEMP_SCHEME":
		c.MeterTempScheme, err = gauge.ParseScheme(value)
	case "METER_HUMIDITY_SCHEME":
		c.MeterHumidityScheme, err = gauge.ParseScheme(value)
	case "METER_PRESSURE_SCHEME":
		c.MeterPressureScheme, err = gauge.ParseScheme(value)
	case "TEMP_MIN":
		c.TempRange.Min, err = parseFloat(key, value)
	case "TEMP_MAX":
		c.TempRange.Max, err = parseFloat(key, value)
	case "HUMIDITY_MIN":
		c.HumidityRange.Min, err = parseFloat(key, value)
	case "HUMIDITY_MAX":
		c.HumidityRange.Max, err = parseFloat(key, value)
	case "PRESSURE_MIN":
		c.PressureRange.Min, err = parseFloat(key, value)
	case "PRESSURE_MAX":
		c.PressureRange.Max, err = parseFloat(key, value)

	// Serial diagnostics
	case "DIAG_SERIAL_PORT":
		c.DiagSerialPort = value
	case "DIAG_BAUD_RATE":
		c.DiagBaudRate, err = parseInt(key, value)

	// Web Server
	case "WEB_SERVER_PORT":
		c.WebServerPort, err = parseInt(key, value)

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return err
}

func parseInt(key, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return v, nil
}

func parseByte(key, value string, hi int) (byte, error) {
	v, err := parseInt(key, value)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > hi {
		return 0, fmt.Errorf("%s must be 0-%d, got %d", key, hi, v)
	}
	return byte(v), nil
}

func parseFloat(key, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return v, nil
}

// validate checks that required fields are set and meter ranges are usable.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicEnv == "" {
		return fmt.Errorf("TOPIC_ENV is required")
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("SAMPLE_INTERVAL must be positive")
	}
	if c.DisplayUpdateInterval <= 0 {
		return fmt.Errorf("DISPLAY_UPDATE_INTERVAL must be positive")
	}
	if c.MeterSegments <= 0 {
		return fmt.Errorf("METER_SEGMENTS must be positive")
	}
	for name, r := range map[string]Range{
		"TEMP":     c.TempRange,
		"HUMIDITY": c.HumidityRange,
		"PRESSURE": c.PressureRange,
	} {
		if r.Min == r.Max {
			return fmt.Errorf("%s_MIN/%s_MAX %g: %w", name, name, r.Min, ErrDegenerateRange)
		}
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Only the first call loads the file.
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
