package device

import "time"

// Actor identifies who sent a command.
type Actor struct {
	// Hostname is the machine the command came from.
	Hostname string
	// Username is the system user who sent it.
	Username string
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// String renders the actor as user@host.
func (a *Actor) String() string {
	if a == nil {
		return "<unknown>"
	}

	return a.Username + "@" + a.Hostname
}

// Settings are the output settings that survive a restart.
type Settings struct {
	// Intensity is the actuator duty level, 0 meaning indicator only.
	Intensity uint8
	// UpdatedAt is when Intensity was last changed.
	UpdatedAt time.Time
	// UpdatedBy is who changed it, if known.
	UpdatedBy *Actor
}

// Clone returns a copy of the settings.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}

	return &Settings{
		Intensity: s.Intensity,
		UpdatedAt: s.UpdatedAt,
		UpdatedBy: s.UpdatedBy.Clone(),
	}
}

// Snapshot is what status queries return.
type Snapshot struct {
	// Status is the last published status.
	Status Status
	// Timestamp is when Status was published.
	Timestamp time.Time
	// Morse is the rendering of the last accepted text.
	Morse string
	// Intensity is the current actuator level.
	Intensity uint8
	// Connected reports whether a wireless central is attached.
	Connected bool
	// LastActor is who sent the last text command.
	LastActor *Actor
}

// Clone returns a copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}

	cloned := *s
	cloned.LastActor = s.LastActor.Clone()

	return &cloned
}
