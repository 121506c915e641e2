package store

import "sync"

// Awaiting is the single conversational state a user can be in. Exactly one
// value is active per session at any time.
type Awaiting string

const (
	AwaitingNothing             Awaiting = "IDLE"
	AwaitingTopic               Awaiting = "TOPIC"
	AwaitingReferenceImage      Awaiting = "REFERENCE_IMAGE"
	AwaitingSlideCount          Awaiting = "SLIDE_COUNT"
	AwaitingInfographicYesNo    Awaiting = "INFOGRAPHIC_YES_NO"
	AwaitingPostYesNo           Awaiting = "POST_YES_NO"
	AwaitingStandalonePostTopic Awaiting = "STANDALONE_POST_TOPIC"
	AwaitingRegenerateYesNo     Awaiting = "REGENERATE_YES_NO"
	AwaitingSlideNumber         Awaiting = "SLIDE_NUMBER_TO_REGENERATE"
	AwaitingExternalEditConfirm Awaiting = "EXTERNAL_EDIT_CONFIRMATION"
	AwaitingInlineEditedPrompt  Awaiting = "INLINE_EDITED_PROMPT"
	JobRunning                  Awaiting = "JOB_RUNNING"
)

// Working modes selected via the main keyboard
const (
	ModeCarousel    = "CAROUSEL"
	ModeInfographic = "INFOGRAPHIC"
)

// Regeneration targets
const (
	RegenSlide       = "SLIDE"
	RegenInfographic = "INFOGRAPHIC"
	RegenPost        = "POST"
)

// PendingRequest accumulates the three inputs needed to start a carousel job.
// Cleared on dispatch.
type PendingRequest struct {
	Topic             string `json:"topic"`
	ReferenceImageURL string `json:"reference_image_url"`
	SlideCount        int    `json:"slide_count"`
}

// CarouselContext is the regeneration context kept after a carousel job
// completes. Lives until a new carousel job starts or the session expires.
type CarouselContext struct {
	Topic             string            `json:"topic"`
	Document          *CarouselDocument `json:"document"`
	Prompts           map[int]string    `json:"prompts"`
	Images            map[int]string    `json:"images"`
	SlideCount        int               `json:"slide_count"`
	ReferenceImageURL string            `json:"reference_image_url"`
	RecordID          string            `json:"record_id"`
}

// InfographicContext keeps the last rendered infographic for regeneration.
type InfographicContext struct {
	Topic    string `json:"topic"`
	Prompt   string `json:"prompt"`
	ImageURL string `json:"image_url"`
	RecordID string `json:"record_id"`
}

// PostContext keeps the last generated post for regeneration.
type PostContext struct {
	Topic        string `json:"topic"`
	Text         string `json:"text"`
	FromCarousel bool   `json:"from_carousel"`
	RecordID     string `json:"record_id"`
}

// RegenTarget identifies what the pending regeneration loop points at.
type RegenTarget struct {
	Kind        string `json:"kind"` // SLIDE | INFOGRAPHIC | POST
	SlideNumber int    `json:"slide_number"`
}

// Session represents the active user session state in memory
type Session struct {
	UserID int64  `json:"user_id"`
	ChatID int64  `json:"chat_id"`
	Mode   string `json:"mode"` // "CAROUSEL" | "INFOGRAPHIC"

	Awaiting Awaiting       `json:"awaiting"`
	Pending  PendingRequest `json:"pending"`

	// Handle of the in-flight job, empty when no job is running.
	ActiveJobID string `json:"active_job_id"`

	LastCarousel    *CarouselContext    `json:"last_carousel"`
	LastInfographic *InfographicContext `json:"last_infographic"`
	LastPost        *PostContext        `json:"last_post"`

	Regen RegenTarget `json:"regen"`

	mu sync.Mutex
}

// Lock serializes turns on this session. The poller handles messages in
// parallel and the job consumer finishes jobs from its own goroutine; every
// read-check-write on session state must happen under this lock or the busy
// guard admits two jobs for one user.
func (s *Session) Lock() {
	s.mu.Lock()
}

func (s *Session) Unlock() {
	s.mu.Unlock()
}

// NewSession returns an idle carousel-mode session for the given user.
func NewSession(userID, chatID int64) *Session {
	return &Session{
		UserID:   userID,
		ChatID:   chatID,
		Mode:     ModeCarousel,
		Awaiting: AwaitingNothing,
	}
}

// To moves the session into the given state.
func (s *Session) To(a Awaiting) {
	s.Awaiting = a
}

// Busy reports whether a job is unresolved for this user.
func (s *Session) Busy() bool {
	return s.Awaiting == JobRunning || s.ActiveJobID != ""
}

// ResetFlow clears the in-progress request and returns the session to idle.
// Regeneration contexts are kept so the user can still re-offer flows.
func (s *Session) ResetFlow() {
	s.Pending = PendingRequest{}
	s.ActiveJobID = ""
	s.Awaiting = AwaitingNothing
}
