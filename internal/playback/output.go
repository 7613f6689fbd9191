package playback

// Channel addresses one physical output by role.
type Channel uint8

const (
	// Indicator is the binary visual output (LED).
	Indicator Channel = iota
	// Actuator is the variable-intensity output (vibration motor).
	Actuator
)

const (
	// LevelOff switches a channel off.
	LevelOff uint8 = 0
	// LevelFull is the level written to the indicator when it is lit.
	LevelFull uint8 = 255
)

// AllChannels lists every channel in write order.
//
//nolint:gochecknoglobals // Fixed set of roles.
var AllChannels = [...]Channel{Indicator, Actuator}

// String implements fmt.Stringer.
func (c Channel) String() string {
	switch c {
	case Indicator:
		return "indicator"
	case Actuator:
		return "actuator"
	default:
		return "unknown"
	}
}

// Driver writes output levels. Set must return quickly and never wait on
// hardware; failures are the driver's own business.
type Driver interface {
	Set(ch Channel, level uint8)
}

// ChannelConfig selects the active outputs and the actuator duty level.
type ChannelConfig struct {
	// Indicator enables the visual channel.
	Indicator bool
	// Actuator enables the intensity channel.
	Actuator bool
	// Intensity is the actuator duty level, 0 meaning off.
	Intensity uint8
}

// ChannelsForIntensity maps the one-byte intensity command onto a config:
// zero leaves only the indicator, anything else enables both channels.
func ChannelsForIntensity(intensity uint8) ChannelConfig {
	return ChannelConfig{
		Indicator: true,
		Actuator:  intensity > 0,
		Intensity: intensity,
	}
}

// level returns what an active pulse writes to ch, and whether ch is written at all.
func (c ChannelConfig) level(ch Channel) (uint8, bool) {
	switch ch {
	case Indicator:
		return LevelFull, c.Indicator
	case Actuator:
		return c.Intensity, c.Actuator && c.Intensity > 0
	default:
		return LevelOff, false
	}
}
