package events

// Entity types
const (
	EntityVideo     = "video"
	EntityComment   = "comment"
	EntityApproval  = "approval"
	EntityAnalytics = "analytics"
	EntityBoard     = "board"
)

// Event type constants
const (
	EventVideoCreated       = "video.created"
	EventVideoUpdated       = "video.updated"
	EventVideoStatusChanged = "video.status.changed"
	EventVideoDeleted       = "video.deleted"
	EventCommentAdded       = "comment.added"
	EventCommentDeleted     = "comment.deleted"
	EventApprovalRecorded   = "approval.recorded"
	EventAnalyticsRecorded  = "analytics.recorded"
	EventBoardNotice        = "board.notice"
)

// VideoCreated is emitted when a video link is added.
type VideoCreated struct {
	BaseEvent
	Title      string `json:"title"`
	Status     string `json:"status"`
	UploadedBy string `json:"uploaded_by"`
}

// VideoUpdated is emitted when a video's descriptive fields change.
type VideoUpdated struct {
	BaseEvent
	Fields []string `json:"fields"`
}

// VideoStatusChanged is emitted when a video moves between workflow stages.
type VideoStatusChanged struct {
	BaseEvent
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	ChangedBy string `json:"changed_by,omitempty"`
}

// VideoDeleted is emitted when a video and its dependents are removed.
type VideoDeleted struct {
	BaseEvent
	Title string `json:"title"`
}

// CommentAdded is emitted when a timestamped comment is left on a video.
type CommentAdded struct {
	BaseEvent
	VideoID     string  `json:"video_id"`
	UserID      string  `json:"user_id,omitempty"`
	Timestamp   float64 `json:"timestamp"`
	CommentType string  `json:"comment_type"`
}

// CommentDeleted is emitted when a comment is removed.
type CommentDeleted struct {
	BaseEvent
}

// ApprovalRecorded is emitted when a reviewer approves or rejects a video.
type ApprovalRecorded struct {
	BaseEvent
	VideoID  string `json:"video_id"`
	UserID   string `json:"user_id"`
	Approved bool   `json:"approved"`
	Created  bool   `json:"created"`
}

// AnalyticsRecorded is emitted when metrics are saved for a video.
type AnalyticsRecorded struct {
	BaseEvent
	VideoID  string `json:"video_id"`
	Date     string `json:"date"`
	Platform string `json:"platform,omitempty"`
	Views    int64  `json:"views"`
}

// Notice levels for BoardNotice.
const (
	NoticeSuccess = "success"
	NoticeFailure = "failure"
)

// BoardNotice carries a user-facing board notification (a toast).
type BoardNotice struct {
	BaseEvent
	Level   string `json:"level"`
	Message string `json:"message"`
}
