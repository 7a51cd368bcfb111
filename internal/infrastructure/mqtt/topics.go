package mqtt

import (
	"fmt"
	"strings"
)

// Topic roots.
const (
	TopicPrefix        = "wayfinder"
	TopicPrefixCommand = TopicPrefix + "/command"
	TopicPrefixState   = TopicPrefix + "/state"
	TopicPrefixEvent   = TopicPrefix + "/event"
	TopicPrefixSystem  = TopicPrefix + "/system"
)

// Topics builds and parses Wayfinder topics.
//
//	topics := mqtt.Topics{}
//	topics.GateCommand("gate-library") // wayfinder/command/gate/gate-library
type Topics struct{}

// GateCommand is where the access-control system sets a gate's open flag.
func (Topics) GateCommand(gateID string) string {
	return fmt.Sprintf("%s/gate/%s", TopicPrefixCommand, gateID)
}

// PathCommand is where the access-control system blocks or unblocks a path.
func (Topics) PathCommand(pathID string) string {
	return fmt.Sprintf("%s/path/%s", TopicPrefixCommand, pathID)
}

// GateState is the retained state of a gate.
func (Topics) GateState(gateID string) string {
	return fmt.Sprintf("%s/gate/%s", TopicPrefixState, gateID)
}

// PathState is the retained state of a path.
func (Topics) PathState(pathID string) string {
	return fmt.Sprintf("%s/path/%s", TopicPrefixState, pathID)
}

// Event carries service events such as route.computed.
func (Topics) Event(eventType string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixEvent, eventType)
}

// SystemStatus is the retained online/offline status of the core.
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}

// AllGateCommands matches every gate command.
func (Topics) AllGateCommands() string {
	return TopicPrefixCommand + "/gate/+"
}

// AllPathCommands matches every path command.
func (Topics) AllPathCommands() string {
	return TopicPrefixCommand + "/path/+"
}

// AllEvents matches every service event.
func (Topics) AllEvents() string {
	return TopicPrefixEvent + "/#"
}

// AllTopics matches everything under the Wayfinder root.
func (Topics) AllTopics() string {
	return TopicPrefix + "/#"
}

// GateID extracts the gate ID from a gate command or state topic.
func (Topics) GateID(topic string) (string, bool) {
	return trailingID(topic, "gate")
}

// PathID extracts the path ID from a path command or state topic.
func (Topics) PathID(topic string) (string, bool) {
	return trailingID(topic, "path")
}

// trailingID returns the last segment of wayfinder/{command|state}/{kind}/{id}.
func trailingID(topic, kind string) (string, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != TopicPrefix || parts[2] != kind || parts[3] == "" {
		return "", false
	}
	if parts[1] != "command" && parts[1] != "state" {
		return "", false
	}
	return parts[3], true
}
