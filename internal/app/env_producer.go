// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/envmeter/internal/config"
	"github.com/relabs-tech/envmeter/internal/env"
	"github.com/relabs-tech/envmeter/internal/poll"
	"github.com/relabs-tech/envmeter/internal/sensors"
)

// RunEnvProducer polls the configured sensor every SAMPLE_INTERVAL and
// publishes each sample to TOPIC_ENV.
func RunEnvProducer() error {
	cfg := config.Get()

	src, closeSrc, err := sensors.Open(cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDProducer, "producer")
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	interval := time.Duration(cfg.SampleInterval) * time.Millisecond
	cycle := &poll.Cycle{
		Gate:   &poll.Gate{Interval: interval},
		Source: src,
		State:  env.NewState(),
		Render: publishRenderer(client, cfg.TopicEnv),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("producer: sampling every %v", interval)
	if err := cycle.Run(ctx, tickFor(interval), "producer"); !errors.Is(err, context.Canceled) {
		return err
	}
	log.Println("producer: shutting down")
	return nil
}

func publishRenderer(p publisher, topic string) func(*env.State) error {
	return func(st *env.State) error {
		s := st.Latest()
		if err := publishSample(p, topic, s); err != nil {
			return err
		}
		log.Printf("producer: published %s temp=%.2fC hum=%.2f%% press=%.2fhPa",
			s.Source, s.Temperature, s.Humidity, s.Pressure)
		return nil
	}
}

// tickFor picks a ticker period fine enough for a gate of interval.
func tickFor(interval time.Duration) time.Duration {
	tick := interval / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	return tick
}
