// Copyright 2023 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/maruel/thermview/frame"
)

// Item is the payload published for each frame.
type Item struct {
	Index     int
	Timestamp time.Time
	Min       uint16 // Raw code, in 1/64°K.
	Max       uint16 // Raw code, in 1/64°K.
	PNG       []byte
}

// Publisher is the subset of mqtt.Client used by MQTT.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTT publishes each frame as a JSON encoded Item.
type MQTT struct {
	Client Publisher
	Topic  string
	QoS    byte

	buf bytes.Buffer
}

// DialMQTT connects to broker, e.g. "tcp://localhost:1883".
func DialMQTT(broker, clientID, topic string) (*MQTT, mqtt.Client, error) {
	opts := mqtt.NewClientOptions().AddBroker(broker).SetClientID(clientID)
	c := mqtt.NewClient(opts)
	if t := c.Connect(); t.Wait() && t.Error() != nil {
		return nil, nil, fmt.Errorf("sink: connecting to %s: %w", broker, t.Error())
	}
	return &MQTT{Client: c, Topic: topic, QoS: 1}, c, nil
}

func (m *MQTT) Emit(index int, f *frame.Frame, img *image.RGBA) error {
	m.buf.Reset()
	if err := png.Encode(&m.buf, img); err != nil {
		return fmt.Errorf("sink: encoding frame %d: %w", index, err)
	}
	item := Item{
		Index:     index,
		Timestamp: time.Now().UTC(),
		Min:       f.Min,
		Max:       f.Max,
		PNG:       m.buf.Bytes(),
	}
	payload, err := json.Marshal(&item)
	if err != nil {
		return fmt.Errorf("sink: %w", err)
	}
	t := m.Client.Publish(m.Topic, m.QoS, false, payload)
	if t.Wait() && t.Error() != nil {
		return fmt.Errorf("sink: publishing frame %d: %w", index, t.Error())
	}
	return nil
}
