package ble

import (
	"fmt"

	"tinygo.org/x/bluetooth"

	"github.com/oshokin/morse-beacon/internal/logger"
)

// Options configure Start.
type Options struct {
	// LocalName is the advertised name.
	LocalName string
	// Adapter selects the host adapter; empty means the default one.
	Adapter string
}

// Start enables the adapter, registers the GATT service, attaches handler
// and starts advertising.
func (p *Peripheral) Start(handler Handler, opts Options) error {
	adapter := selectAdapter(opts.Adapter)

	if err := adapter.Enable(); err != nil {
		return fmt.Errorf("enable BLE adapter: %w", err)
	}

	uuids, err := parseUUIDs(ServiceUUID, TextUUID, MorseUUID, IntensityUUID, StatusUUID)
	if err != nil {
		return err
	}

	var morseChar, statusChar bluetooth.Characteristic

	service := &bluetooth.Service{
		UUID: uuids[0],
		Characteristics: []bluetooth.CharacteristicConfig{
			{
				UUID:  uuids[1],
				Value: make([]byte, 0, TextCapacity),
				Flags: bluetooth.CharacteristicWritePermission | bluetooth.CharacteristicWriteWithoutResponsePermission,
				WriteEvent: func(_ bluetooth.Connection, _ int, value []byte) {
					p.onText(value)
				},
			},
			{
				Handle: &morseChar,
				UUID:   uuids[2],
				Value:  make([]byte, 0, MorseCapacity),
				Flags:  bluetooth.CharacteristicReadPermission | bluetooth.CharacteristicNotifyPermission,
			},
			{
				UUID:  uuids[3],
				Value: []byte{0},
				Flags: bluetooth.CharacteristicWritePermission | bluetooth.CharacteristicWriteWithoutResponsePermission,
				WriteEvent: func(_ bluetooth.Connection, _ int, value []byte) {
					p.onIntensity(value)
				},
			},
			{
				Handle: &statusChar,
				UUID:   uuids[4],
				Value:  make([]byte, 4), //nolint:mnd // int32 status.
				Flags:  bluetooth.CharacteristicReadPermission | bluetooth.CharacteristicNotifyPermission,
			},
		},
	}

	// Callbacks may fire as soon as the service exists.
	p.Attach(handler, nil, nil)

	adapter.SetConnectHandler(func(_ bluetooth.Device, connected bool) {
		p.onConnection(connected)
	})

	if err = adapter.AddService(service); err != nil {
		return fmt.Errorf("add GATT service: %w", err)
	}

	p.Attach(handler, &morseChar, &statusChar)

	adv := adapter.DefaultAdvertisement()

	err = adv.Configure(bluetooth.AdvertisementOptions{
		LocalName:    opts.LocalName,
		ServiceUUIDs: []bluetooth.UUID{uuids[0]},
	})
	if err != nil {
		return fmt.Errorf("configure advertisement: %w", err)
	}

	if err = adv.Start(); err != nil {
		return fmt.Errorf("start advertising: %w", err)
	}

	logger.InfoKV(p.ctx, "Advertising", "local_name", opts.LocalName, "service", ServiceUUID)

	return nil
}

func parseUUIDs(values ...string) ([]bluetooth.UUID, error) {
	uuids := make([]bluetooth.UUID, 0, len(values))

	for _, value := range values {
		uuid, err := bluetooth.ParseUUID(value)
		if err != nil {
			return nil, fmt.Errorf("parse UUID %s: %w", value, err)
		}

		uuids = append(uuids, uuid)
	}

	return uuids, nil
}
