package model

// Status of a room. Inactive is terminal: a retired code never accepts
// joins again, the creator mints a fresh code instead.
type Status = string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Role inside a room. Anyone who is not the creator is folded into the
// single participant role, so likes of a third joiner land in the
// participant set.
type Role = string

const (
	RoleCreator     Role = "creator"
	RoleParticipant Role = "participant"
)

const EmptyCode string = ""

// Room is the shared document both roles mutate. All set fields grow only:
// ConnectedUsers via join, the like sets via likes, MatchedMovieIDs via
// reconciliation. MatchedMovieIDs stays a subset of the intersection of
// the two like sets.
type Room struct {
	Code           string
	CreatorID      string
	ConnectedUsers []string
	Status         Status

	CreatorLikes     []int64
	ParticipantLikes []int64
	MatchedMovieIDs  []int64
}

func (r Room) RoleOf(userID string) Role {
	if userID == r.CreatorID {
		return RoleCreator
	}
	return RoleParticipant
}

func (r Room) IsActive() bool {
	return r.Status == StatusActive
}

// Likes returns the like set recorded for a role.
func (r Room) Likes(role Role) []int64 {
	if role == RoleCreator {
		return r.CreatorLikes
	}
	return r.ParticipantLikes
}
