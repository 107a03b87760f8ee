package events

import "time"

// Event type identifiers.
const (
	EventTypeMissionCompleted = "mission.completed"
	EventTypeOpinionCreated   = "opinion.created"
)

// MissionCompletedEvent fires when a user completes a mission. It is the
// primary trigger for badge evaluation.
type MissionCompletedEvent struct {
	BaseEvent
	MissionID int64 `json:"mission_id"`
}

// NewMissionCompletedEvent creates a mission completion event.
func NewMissionCompletedEvent(userID, missionID int64) *MissionCompletedEvent {
	return &MissionCompletedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: EventTypeMissionCompleted,
			Timestamp: time.Now(),
			UserID:    userID,
		},
		MissionID: missionID,
	}
}

// OpinionCreatedEvent fires when a user records a reflection on a
// completed mission.
type OpinionCreatedEvent struct {
	BaseEvent
	MissionID int64 `json:"mission_id"`
	OpinionID int64 `json:"opinion_id"`
}

// NewOpinionCreatedEvent creates an opinion creation event.
func NewOpinionCreatedEvent(userID, missionID, opinionID int64) *OpinionCreatedEvent {
	return &OpinionCreatedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: EventTypeOpinionCreated,
			Timestamp: time.Now(),
			UserID:    userID,
		},
		MissionID: missionID,
		OpinionID: opinionID,
	}
}
