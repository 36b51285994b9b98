package game

// Gateway delivers outbound events to connected participants. Implementations
// must not block: the service calls them while holding a room's lock.
type Gateway interface {
	ToConn(connID, event string, payload any)
	ToRoom(code, event string, payload any)
}

const (
	EventRoomCreated     = "room_created"
	EventJoined          = "joined_room"
	EventState           = "state"
	EventRole            = "role"
	EventCluePhase       = "clue_phase"
	EventClue            = "clue"
	EventVotePhase       = "vote_phase"
	EventVoteUpdate      = "vote_update"
	EventSystem          = "system"
	EventTaskUpdate      = "task_update"
	EventSabotageStarted = "sabotage_started"
	EventSabotageEnded   = "sabotage_ended"
	EventReveal          = "reveal"
	EventError           = "error"
)

type PublicPlayer struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
	Alive     bool   `json:"alive"`
}

type RoomCreatedPayload struct {
	Code string `json:"code"`
}

type SelfPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

type JoinedPayload struct {
	Code     string         `json:"code"`
	You      SelfPayload    `json:"you"`
	HostID   string         `json:"hostId"`
	Phase    Phase          `json:"phase"`
	Settings Settings       `json:"settings"`
	Players  []PublicPlayer `json:"players"`
	Tasks    TaskState      `json:"tasks"`
}

type StatePayload struct {
	Phase    Phase          `json:"phase"`
	Players  []PublicPlayer `json:"players"`
	Settings Settings       `json:"settings"`
	Round    int            `json:"round"`
	Tasks    TaskState      `json:"tasks"`
	HostID   string         `json:"hostId"`
}

type RolePayload struct {
	Role   Role   `json:"role"`
	Secret string `json:"secret,omitempty"`
}

type CluePhasePayload struct {
	Seconds int `json:"seconds"`
}

type CluePayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Text string `json:"text"`
}

type VotePhasePayload struct {
	Players []PublicPlayer `json:"players"`
}

// VoteUpdatePayload is an aggregate view: per-target counts plus who has
// voted, never voter -> target pairs.
type VoteUpdatePayload struct {
	Counts map[string]int `json:"counts"`
	Voted  []string       `json:"voted"`
}

type SystemPayload struct {
	Text string `json:"text"`
}

type SabotageStartedPayload struct {
	Until int64 `json:"until"`
}

type RevealPayload struct {
	ImpostorID     string `json:"impostorId"`
	ImpostorName   string `json:"impostorName"`
	Secret         string `json:"secret"`
	ImpostorCaught bool   `json:"impostorCaught"`
	Reason         string `json:"reason"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorEvent builds the payload delivered only to the offending sender.
func ErrorEvent(err error) ErrorPayload {
	return ErrorPayload{Code: err.Error(), Message: UserMessage(err)}
}
