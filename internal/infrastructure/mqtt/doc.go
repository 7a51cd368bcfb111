// Package mqtt connects Wayfinder Core to the site MQTT broker.
//
// The broker carries two kinds of traffic:
//   - commands from the building access-control system that open or close
//     gates and block or unblock paths (wayfinder/command/...)
//   - state and event messages published by the core for displays and
//     other subscribers (wayfinder/state/..., wayfinder/event/...)
//
// The client reconnects automatically with backoff and restores its
// subscriptions after every reconnect. A retained status message on
// wayfinder/system/status reports online, offline and crash (LWT) states.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.AllGateCommands(), 1,
//	    func(topic string, payload []byte) error {
//	        id, _ := mqtt.Topics{}.GateID(topic)
//	        ...
//	    })
package mqtt
