package tachomotor

import (
	"fmt"

	"github.com/sciguy16/node-poweredup/internal/protocol"
)

// UnsupportedTopologyError reports a paired-speed command issued to a motor
// that is not bound to a virtual port.
type UnsupportedTopologyError struct {
	Port   byte
	Speeds int
}

func (e UnsupportedTopologyError) Error() string {
	return fmt.Sprintf("port %d cannot drive %d independent speeds: not a virtual port", e.Port, e.Speeds)
}

// UnsupportedVariantError reports a motor command issued through a hub
// generation that does not support motor actuation.
type UnsupportedVariantError struct {
	Variant protocol.HubVariant
	Action  string
}

func (e UnsupportedVariantError) Error() string {
	return fmt.Sprintf("%s does not support %s", e.Variant, e.Action)
}
