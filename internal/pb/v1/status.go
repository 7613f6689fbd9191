package pb

import (
	"errors"
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/morse-beacon/internal/domain/device"
)

// Status payload field names.
const (
	FieldStatus     = "status"
	FieldStatusCode = "status_code"
	FieldTimestamp  = "timestamp"
	FieldMorse      = "morse"
	FieldIntensity  = "intensity"
	FieldConnected  = "connected"
	FieldLastActor  = "last_actor"
	FieldHostname   = "hostname"
	FieldUsername   = "username"
)

// ErrMalformedStatus is returned for a status payload that cannot be decoded.
var ErrMalformedStatus = errors.New("malformed status payload")

// SnapshotToStruct converts a domain snapshot to the GetStatus payload.
func SnapshotToStruct(snapshot *domain.Snapshot) (*structpb.Struct, error) {
	if snapshot == nil {
		return &structpb.Struct{}, nil
	}

	fields := map[string]any{
		FieldStatus:     snapshot.Status.String(),
		FieldStatusCode: float64(snapshot.Status),
		FieldMorse:      snapshot.Morse,
		FieldIntensity:  float64(snapshot.Intensity),
		FieldConnected:  snapshot.Connected,
	}

	if !snapshot.Timestamp.IsZero() {
		fields[FieldTimestamp] = snapshot.Timestamp.UTC().Format(time.RFC3339Nano)
	}

	if snapshot.LastActor != nil {
		fields[FieldLastActor] = map[string]any{
			FieldHostname: snapshot.LastActor.Hostname,
			FieldUsername: snapshot.LastActor.Username,
		}
	}

	message, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build status payload: %w", err)
	}

	return message, nil
}

// SnapshotFromStruct converts a GetStatus payload back to a domain snapshot.
func SnapshotFromStruct(message *structpb.Struct) (*domain.Snapshot, error) {
	fields := message.GetFields()

	code, ok := fields[FieldStatusCode]
	if !ok {
		return nil, fmt.Errorf("%w: %s is missing", ErrMalformedStatus, FieldStatusCode)
	}

	status := domain.Status(int32(code.GetNumberValue()))
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %v", ErrMalformedStatus, code.GetNumberValue())
	}

	intensity := fields[FieldIntensity].GetNumberValue()
	if intensity < 0 || intensity > math.MaxUint8 {
		return nil, fmt.Errorf("%w: intensity %v is out of range", ErrMalformedStatus, intensity)
	}

	result := &domain.Snapshot{
		Status:    status,
		Morse:     fields[FieldMorse].GetStringValue(),
		Intensity: uint8(intensity),
		Connected: fields[FieldConnected].GetBoolValue(),
	}

	if raw := fields[FieldTimestamp].GetStringValue(); raw != "" {
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedStatus, FieldTimestamp, err)
		}

		result.Timestamp = ts
	}

	if actor := fields[FieldLastActor].GetStructValue(); actor != nil {
		result.LastActor = &domain.Actor{
			Hostname: actor.GetFields()[FieldHostname].GetStringValue(),
			Username: actor.GetFields()[FieldUsername].GetStringValue(),
		}
	}

	return result, nil
}
