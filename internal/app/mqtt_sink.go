// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/bbox_compass/internal/compass"
)

// recordPayload is the JSON schema we publish, one message per record.
// calc is null when no course was computed.
type recordPayload struct {
	Time      float64  `json:"time"`
	Missing   bool     `json:"missing,omitempty"`
	Throttle  int      `json:"throttle"`
	NavState  int      `json:"navstate"`
	GPSSpeed  float64  `json:"gps_speed_ms"`
	GPSCourse int      `json:"gps_course"`
	Heading   string   `json:"heading"`
	Attitude2 float64  `json:"attitude2"`
	Calc      *float64 `json:"calc"`
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
}

func newRecordPayload(r compass.Record) recordPayload {
	if r.Missing {
		return recordPayload{Time: r.Elapsed, Missing: true,
			Throttle: -1, NavState: -1, GPSSpeed: -1, GPSCourse: -1, Heading: "-1", Attitude2: -1}
	}
	p := recordPayload{
		Time:      r.Elapsed,
		Throttle:  r.Throttle,
		NavState:  r.NavState,
		GPSSpeed:  r.GPSSpeed,
		GPSCourse: r.GPSCourse,
		Heading:   r.Heading,
		Attitude2: r.Attitude,
		Lat:       r.Lat,
		Lon:       r.Lon,
	}
	if r.HasCourse {
		c := r.Course
		p.Calc = &c
	}
	return p
}

// mqttSink publishes records to an MQTT topic.
type mqttSink struct {
	client mqtt.Client
	topic  string
	qos    byte
}

func newMQTTSink(broker, clientID, topic string, qos byte) (*mqttSink, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("MQTT connect %s: %w", broker, token.Error())
	}
	log.Printf("connected to MQTT broker at %s, publishing to %s", broker, topic)

	return &mqttSink{client: client, topic: topic, qos: qos}, nil
}

func (s *mqttSink) Write(r compass.Record) error {
	payload, err := json.Marshal(newRecordPayload(r))
	if err != nil {
		return fmt.Errorf("record JSON marshal: %w", err)
	}
	token := s.client.Publish(s.topic, s.qos, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("MQTT publish: %w", token.Error())
	}
	return nil
}

func (s *mqttSink) Close() error {
	s.client.Disconnect(250)
	return nil
}
