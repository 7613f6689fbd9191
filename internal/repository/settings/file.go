package settings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/morse-beacon/internal/config"
	"github.com/oshokin/morse-beacon/internal/domain/device"
)

// Repository defines persistence operations for the output settings.
type Repository interface {
	Load(ctx context.Context) (*device.Settings, error)
	Save(ctx context.Context, settings *device.Settings) error
}

// FileRepository persists the settings to a JSON file on disk.
// JSON is produced and consumed via protobuf JSON (protojson) over a
// structpb.Struct, the same message the gRPC API uses for status payloads.
type FileRepository struct {
	// path is the filesystem location of the JSON settings file.
	path string
	// mu protects concurrent access to the settings file.
	mu sync.Mutex
}

const (
	fieldIntensity = "intensity"
	fieldUpdatedAt = "updated_at"
	fieldUpdatedBy = "updated_by"
	fieldHostname  = "hostname"
	fieldUsername  = "username"
)

var (
	// ErrNotFound is returned when the settings file does not exist yet.
	ErrNotFound = errors.New("settings not found")
	// ErrCorrupted is returned when the file parses but holds invalid values.
	ErrCorrupted = errors.New("settings file is corrupted")
)

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the settings from disk.
func (r *FileRepository) Load(_ context.Context) (*device.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read settings file: %w", err)
	}

	var message structpb.Struct
	if err = protojson.Unmarshal(contents, &message); err != nil {
		return nil, fmt.Errorf("decode settings file: %w", err)
	}

	return fromStruct(&message)
}

// Save writes the settings to disk using JSON representation.
func (r *FileRepository) Save(_ context.Context, settings *device.Settings) error {
	if settings == nil {
		return fmt.Errorf("%w: nil settings", ErrCorrupted)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	message, err := toStruct(settings)
	if err != nil {
		return err
	}

	marshalOptions := protojson.MarshalOptions{
		Multiline: true,
	}

	data, err := marshalOptions.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// fromStruct converts the stored message into the domain model.
func fromStruct(message *structpb.Struct) (*device.Settings, error) {
	fields := message.GetFields()

	intensityValue, ok := fields[fieldIntensity]
	if !ok {
		return nil, fmt.Errorf("%w: %s is missing", ErrCorrupted, fieldIntensity)
	}

	intensity := intensityValue.GetNumberValue()
	if intensity < 0 || intensity > math.MaxUint8 || intensity != math.Trunc(intensity) {
		return nil, fmt.Errorf("%w: %s %v is out of range", ErrCorrupted, fieldIntensity, intensity)
	}

	result := &device.Settings{
		Intensity: uint8(intensity),
	}

	if raw := fields[fieldUpdatedAt].GetStringValue(); raw != "" {
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCorrupted, fieldUpdatedAt, err)
		}

		result.UpdatedAt = ts
	}

	if actor := fields[fieldUpdatedBy].GetStructValue(); actor != nil {
		result.UpdatedBy = &device.Actor{
			Hostname: actor.GetFields()[fieldHostname].GetStringValue(),
			Username: actor.GetFields()[fieldUsername].GetStringValue(),
		}
	}

	return result, nil
}

// toStruct converts the domain model into the stored message.
func toStruct(settings *device.Settings) (*structpb.Struct, error) {
	fields := map[string]any{
		fieldIntensity: float64(settings.Intensity),
	}

	if !settings.UpdatedAt.IsZero() {
		fields[fieldUpdatedAt] = settings.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}

	if settings.UpdatedBy != nil {
		fields[fieldUpdatedBy] = map[string]any{
			fieldHostname: settings.UpdatedBy.Hostname,
			fieldUsername: settings.UpdatedBy.Username,
		}
	}

	message, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build settings message: %w", err)
	}

	return message, nil
}
