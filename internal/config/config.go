package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the device daemon and its clients.
type Config struct {
	// LocalName is the name advertised over the wireless link.
	LocalName string `yaml:"local_name"`
	// BLE configures the GATT peripheral.
	BLE BLEConfig `yaml:"ble"`
	// GRPCAddress is the gRPC listen (device) or dial (client) address.
	GRPCAddress string `yaml:"grpc_addr"`
	// HTTPAddress is the optional admin listener for health and metrics.
	HTTPAddress string `yaml:"http_addr,omitempty"`
	// SettingsFile is the JSON file holding the persisted actuator intensity.
	SettingsFile string `yaml:"settings_file"`
	// DefaultIntensity is used when no persisted intensity exists.
	DefaultIntensity *uint8 `yaml:"default_intensity,omitempty"`
	// Preempt lets a new text command replace the one being played.
	Preempt bool `yaml:"preempt"`
	// SelfTest plays a short pattern once at startup.
	SelfTest *bool `yaml:"self_test,omitempty"`
	// Serial configures the optional serial-line output driver.
	Serial SerialConfig `yaml:"serial,omitempty"`
	// MIDI configures the optional sidetone output driver.
	MIDI MIDIConfig `yaml:"midi,omitempty"`
	// Timeout bounds client RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum log level, e.g. "info" or "debug".
	LogLevel string `yaml:"log_level,omitempty"`
}

// BLEConfig configures the wireless peripheral.
type BLEConfig struct {
	// Enabled turns the peripheral on.
	Enabled bool `yaml:"enabled"`
	// Adapter selects a host adapter such as "hci1"; empty means the default one.
	Adapter string `yaml:"adapter,omitempty"`
}

// SerialConfig configures the serial output driver.
type SerialConfig struct {
	// Port is the device path, e.g. /dev/ttyUSB0. Empty disables the driver.
	Port string `yaml:"port,omitempty"`
	// Baud is the line speed.
	Baud int `yaml:"baud,omitempty"`
}

// MIDIConfig configures the MIDI sidetone driver.
type MIDIConfig struct {
	// Port is a substring of the MIDI output port name. Empty disables the driver.
	Port string `yaml:"port,omitempty"`
	// Note is the MIDI key played while a mark is on.
	Note uint8 `yaml:"note,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "morse-beacon-settings.yaml"

	// DefaultSettingsFilename is the default filename for persisted output settings.
	DefaultSettingsFilename = "morse-beacon-state.json"

	// DefaultLocalName is the advertised name used when none is configured.
	DefaultLocalName = "MorseCodify"

	// DefaultIntensity is the actuator level used when none is configured.
	DefaultIntensity uint8 = 128

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultBaud is the serial line speed used when none is configured.
	DefaultBaud = 9600

	// DefaultMIDINote is A5, a comfortable sidetone pitch.
	DefaultMIDINote uint8 = 81

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errGRPCAddressRequired is returned when the gRPC address is missing.
	errGRPCAddressRequired = errors.New("grpc address must be provided")
	// errMIDINoteOutOfRange is returned for notes above 127.
	errMIDINoteOutOfRange = errors.New("midi note must be in range 0..127")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes cfg to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills defaults.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.GRPCAddress == "" {
		return errGRPCAddressRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.GRPCAddress); err != nil {
		return fmt.Errorf("invalid grpc address: %w", err)
	}

	if settings.HTTPAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", settings.HTTPAddress); err != nil {
			return fmt.Errorf("invalid http address: %w", err)
		}
	}

	if settings.MIDI.Note > 127 { //nolint:mnd // MIDI data bytes are 7-bit.
		return errMIDINoteOutOfRange
	}

	if settings.LocalName == "" {
		settings.LocalName = DefaultLocalName
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.SettingsFile == "" {
		settings.SettingsFile = DefaultSettingsFilename
	}

	if settings.DefaultIntensity == nil {
		intensity := DefaultIntensity
		settings.DefaultIntensity = &intensity
	}

	if settings.SelfTest == nil {
		enabled := true
		settings.SelfTest = &enabled
	}

	if settings.Serial.Port != "" && settings.Serial.Baud <= 0 {
		settings.Serial.Baud = DefaultBaud
	}

	if settings.MIDI.Port != "" && settings.MIDI.Note == 0 {
		settings.MIDI.Note = DefaultMIDINote
	}

	return nil
}

// Intensity returns the configured default actuator level.
func (c *Config) Intensity() uint8 {
	if c == nil || c.DefaultIntensity == nil {
		return DefaultIntensity
	}

	return *c.DefaultIntensity
}

// SelfTestEnabled reports whether the boot pattern should play.
func (c *Config) SelfTestEnabled() bool {
	if c == nil || c.SelfTest == nil {
		return true
	}

	return *c.SelfTest
}
