// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
	serial "github.com/jacobsa/go-serial/serial"
)

// Reader turns a stream of NMEA sentences into fixes. RMC sentences carry
// the full fix; GGA sentences only refresh the position.
type Reader struct {
	br      *bufio.Reader
	current Fix
}

func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// Next blocks until an RMC or GGA sentence has been parsed and returns the
// accumulated fix. Unparseable lines are skipped.
func (r *Reader) Next() (Fix, error) {
	for {
		line, err := r.br.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" && strings.HasPrefix(line, "$") {
			if fix, ok := r.apply(line); ok {
				return fix, nil
			}
		}
		if err != nil {
			return Fix{}, fmt.Errorf("gps read: %w", err)
		}
	}
}

func (r *Reader) apply(line string) (Fix, bool) {
	sentence, err := nmea.Parse(line)
	if err != nil {
		// noisy GPS or partial sentences
		return Fix{}, false
	}

	switch sentence.DataType() {
	case nmea.TypeRMC:
		m := sentence.(nmea.RMC)
		r.current.Time = m.Time.String()
		r.current.Date = m.Date.String()
		r.current.Latitude = m.Latitude
		r.current.Longitude = m.Longitude
		r.current.SpeedKnots = m.Speed
		r.current.CourseDeg = m.Course
		r.current.Validity = m.Validity
		return r.current, true

	case nmea.TypeGGA:
		m := sentence.(nmea.GGA)
		if m.FixQuality == nmea.Invalid {
			return Fix{}, false
		}
		r.current.Time = m.Time.String()
		r.current.Latitude = m.Latitude
		r.current.Longitude = m.Longitude
		r.current.AltitudeM = m.Altitude
		r.current.Satellites = m.NumSatellites
		r.current.Quality = m.FixQuality
		r.current.Validity = nmea.ValidRMC
		return r.current, true

	default:
		// ignore other sentence types (GSA, GSV, VTG, ...)
		return Fix{}, false
	}
}

// NextValid returns the first fix the receiver marks as valid.
func (r *Reader) NextValid(ctx context.Context) (Fix, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Fix{}, err
		}
		fix, err := r.Next()
		if err != nil {
			return Fix{}, err
		}
		if fix.Valid() {
			return fix, nil
		}
	}
}

// OpenSerial opens a GPS receiver on a serial port, 8N1.
func OpenSerial(portName string, baudRate int) (io.ReadWriteCloser, error) {
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}
	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open gps serial %s: %w", portName, err)
	}
	return port, nil
}

// SerialLocator reads one valid fix from a serial GPS per call.
type SerialLocator struct {
	PortName string
	BaudRate int
}

func (l SerialLocator) Locate(ctx context.Context) (Fix, error) {
	port, err := OpenSerial(l.PortName, l.BaudRate)
	if err != nil {
		return Fix{}, err
	}
	defer port.Close()

	// Closing the port unblocks a pending read when ctx ends.
	stop := context.AfterFunc(ctx, func() { port.Close() })
	defer stop()

	return NewReader(port).NextValid(ctx)
}
