// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"errors"
	"log"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/envmeter/internal/config"
	"github.com/relabs-tech/envmeter/internal/station"
)

// RunStationProducer opens the weather station serial port, parses NMEA
// meteorological sentences, and publishes merged samples as JSON to
// TOPIC_ENV_STATION.
func RunStationProducer() error {
	cfg := config.Get()
	if cfg.StationSerialPort == "" {
		return errors.New("STATION_SERIAL_PORT is required")
	}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDStation, "station")
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	serialOpts := serial.OpenOptions{
		PortName:              cfg.StationSerialPort,
		BaudRate:              uint(cfg.StationBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return err
	}
	defer port.Close()

	log.Printf("station: serial port opened on %s at %d baud", serialOpts.PortName, serialOpts.BaudRate)

	reader := station.NewReader(port)
	for {
		s, err := reader.Next()
		if err != nil {
			log.Printf("station: read error: %v", err)
			return err
		}
		if err := publishSample(client, cfg.TopicEnvStation, s); err != nil {
			log.Printf("station: %v", err)
			continue
		}
		log.Printf("station: published temp=%.1fC hum=%.1f%% press=%.1fhPa", s.Temperature, s.Humidity, s.Pressure)
	}
}
