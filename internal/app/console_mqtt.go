package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/bbox_compass/internal/config"
)

// RunConsoleMQTT subscribes to the records topic and prints every record
// until Ctrl+C.
func RunConsoleMQTT(cfg *config.Config) error {
	if cfg.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientID + "-console")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.MQTTTopic, cfg.MQTTQoS, func(_ mqtt.Client, msg mqtt.Message) {
		if err := printRecord(os.Stdout, msg.Payload()); err != nil {
			log.Printf("console: record unmarshal error: %v", err)
		}
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: subscribed to %s", cfg.MQTTTopic)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}

// printRecord writes one published record as a console line.
func printRecord(w io.Writer, payload []byte) error {
	var p recordPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return err
	}
	if p.Missing {
		_, err := fmt.Fprintf(w, "[MISS] t=%8.2fs\n", p.Time)
		return err
	}
	calc := "   -  "
	diff := ""
	if p.Calc != nil {
		calc = fmt.Sprintf("%6.1f", *p.Calc)
		diff = fmt.Sprintf("  Δatt=%6.1f°", headingDelta(p.Attitude2, *p.Calc))
	}
	_, err := fmt.Fprintf(w,
		"[REC ] t=%8.2fs thr=%4d nav=%2d spd=%5.1fm/s gps=%4d mag=%s att=%6.1f calc=%s%s\n",
		p.Time, p.Throttle, p.NavState, p.GPSSpeed, p.GPSCourse, p.Heading, p.Attitude2, calc, diff)
	return err
}

// headingDelta returns b-a wrapped into (-180, 180].
func headingDelta(a, b float64) float64 {
	d := b - a
	for d > 180 {
		d -= 360
	}
	for d <= -180 {
		d += 360
	}
	return d
}
