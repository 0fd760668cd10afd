// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package diag writes per-cycle diagnostics to a serial port.
package diag

import (
	"fmt"
	"io"
	"log"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/envmeter/internal/env"
)

// Logger prints one line per render cycle.
type Logger struct {
	out    *log.Logger
	closer io.Closer
}

// Open opens portName for writing at baud.
func Open(portName string, baud int) (*Logger, error) {
	opts := serial.OpenOptions{
		PortName:        portName,
		BaudRate:        uint(baud),
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	}
	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("diag serial open %s: %w", portName, err)
	}
	return New(port), nil
}

// New writes diagnostics to w, closing it on Close if it is an io.Closer.
func New(w io.Writer) *Logger {
	l := &Logger{out: log.New(w, "envmeter: ", log.LstdFlags)}
	if c, ok := w.(io.Closer); ok {
		l.closer = c
	}
	return l
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard)
}

// Sample logs the readings of s.
func (l *Logger) Sample(s env.Sample) {
	l.out.Printf("src=%s temp=%.2fC hum=%.2f%% press=%.2fhPa", s.Source, s.Temperature, s.Humidity, s.Pressure)
}

// Error logs a failed cycle.
func (l *Logger) Error(err error) {
	l.out.Printf("error: %v", err)
}

// Close releases the port.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
