package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bbcompass.conf")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
# local setup
DECODER = /opt/inav/blackbox_decode
STATES_FILE=states.yaml
MQTT_BROKER=tcp://localhost:1883
MQTT_QOS=1
NMEA_TALKER=gn
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Decoder != "/opt/inav/blackbox_decode" || cfg.StatesFile != "states.yaml" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.MQTTBroker != "tcp://localhost:1883" || cfg.MQTTQoS != 1 || cfg.MQTTTopic != "bbcompass/records" {
		t.Errorf("mqtt = %+v", cfg)
	}
	if cfg.NMEATalker != "GN" {
		t.Errorf("talker = %q", cfg.NMEATalker)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"NOPE=1\n", "unknown config key"},
		{"DECODER\n", "invalid config line 1"},
		{"MQTT_QOS=3\n", "MQTT_QOS must be 0-2"},
		{"MQTT_QOS=x\n", "invalid MQTT_QOS"},
		{"DECODER=\n", "DECODER is required"},
		{"MQTT_BROKER=tcp://h:1883\nMQTT_TOPIC=\n", "MQTT_TOPIC is required"},
		{"NMEA_TALKER=GPS\n", "NMEA_TALKER"},
	}
	for _, tc := range tests {
		_, err := Load(writeConfig(t, tc.body))
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%q: err = %v, want %q", tc.body, err, tc.want)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "none")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Decoder != "blackbox_decode" || cfg.MQTTBroker != "" || cfg.NMEATalker != "GP" {
		t.Errorf("Default() = %+v", cfg)
	}
}
