// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"log"
	"time"

	"github.com/relabs-tech/envmeter/internal/config"
	"github.com/relabs-tech/envmeter/internal/env"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
)

// BME280 reads temperature, humidity and pressure from a Bosch BME280 on I²C.
type BME280 struct {
	bus i2c.BusCloser
	dev *bmxx80.Dev
}

// Opts converts the configured oversampling and filter settings.
func Opts(cfg *config.Config) bmxx80.Opts {
	return bmxx80.Opts{
		Temperature: bmxx80.Oversampling(cfg.BMETempOSR),
		Pressure:    bmxx80.Oversampling(cfg.BMEPressureOSR),
		Humidity:    bmxx80.Oversampling(cfg.BMEHumidityOSR),
		Filter:      bmxx80.Filter(cfg.BMEIIRFilter),
	}
}

// NewBME280 initializes periph, opens the configured I²C bus and the sensor.
func NewBME280(cfg *config.Config) (*BME280, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	bus, err := i2creg.Open(cfg.BMEI2CBus)
	if err != nil {
		return nil, fmt.Errorf("BME280 I2C open: %w", err)
	}

	opts := Opts(cfg)
	dev, err := bmxx80.NewI2C(bus, cfg.BMEI2CAddr, &opts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("BME280 init: %w", err)
	}

	log.Printf("sensors: %s initialized at 0x%02X", dev, cfg.BMEI2CAddr)
	return &BME280{bus: bus, dev: dev}, nil
}

// Next reads one sample.
func (b *BME280) Next() (env.Sample, error) {
	var e physic.Env
	if err := b.dev.Sense(&e); err != nil {
		return env.Sample{}, fmt.Errorf("BME280 sense: %w", err)
	}
	return FromEnv("bme280", e, time.Now()), nil
}

// Close halts the sensor and releases the bus.
func (b *BME280) Close() error {
	err := b.dev.Halt()
	if cerr := b.bus.Close(); err == nil {
		err = cerr
	}
	return err
}

// FromEnv converts a periph reading to a sample in °C, %RH and hPa.
func FromEnv(source string, e physic.Env, at time.Time) env.Sample {
	pressurePa := float64(e.Pressure) / float64(physic.Pascal)
	return env.Sample{
		Source:      source,
		Temperature: e.Temperature.Celsius(),
		Humidity:    float64(e.Humidity) / float64(physic.PercentRH),
		Pressure:    pressurePa / 100.0, // 1 hPa = 100 Pa
		Time:        at,
	}
}

// Open returns the source selected by SENSOR_SOURCE and a function releasing it.
func Open(cfg *config.Config) (env.Source, func() error, error) {
	switch cfg.SensorSource {
	case "mock":
		log.Println("sensors: using mock environment source")
		return NewMockSource(), func() error { return nil }, nil
	case "bme280", "":
		dev, err := NewBME280(cfg)
		if err != nil {
			return nil, nil, err
		}
		return dev, dev.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown sensor source %q", cfg.SensorSource)
	}
}
