// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/envmeter/internal/config"
	"github.com/relabs-tech/envmeter/internal/display"
	"github.com/relabs-tech/envmeter/internal/env"
)

// RunConsoleMQTT prints every sample published by the sensor and weather
// station producers until interrupted.
func RunConsoleMQTT() error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDConsole, "console")
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	// Subscribe to sensor samples
	if err := subscribePrint(client, cfg.TopicEnv, "ENV", os.Stdout); err != nil {
		return err
	}

	// Subscribe to weather station samples
	if err := subscribePrint(client, cfg.TopicEnvStation, "STN", os.Stdout); err != nil {
		return err
	}

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	return nil
}

func subscribePrint(client mqtt.Client, topic, tag string, w io.Writer) error {
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		s, err := decodeSample(msg.Payload())
		if err != nil {
			log.Printf("console: %s unmarshal error: %v", topic, err)
			return
		}
		fmt.Fprintln(w, formatSample(tag, s))
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: subscribed to %s", topic)
	return nil
}

// formatSample renders one console line; unsampled values print as "--".
func formatSample(tag string, s env.Sample) string {
	field := func(q env.Quantity) string {
		v := s.Value(q)
		if v == env.NotSampled {
			return "--"
		}
		return display.FormatValue(q, v)
	}
	return fmt.Sprintf("[%-3s] src=%-8s temp=%8s  hum=%7s  press=%9s",
		tag, s.Source, field(env.Temperature), field(env.Humidity), field(env.Pressure))
}
