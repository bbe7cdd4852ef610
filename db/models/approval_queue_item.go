package models

type ApprovalQueueItem struct {
	ID          string `gorm:"column:id;type:text;primaryKey"`
	ActionID    string `gorm:"column:action_id;type:text;not null;index:idx_queue_action_id"`
	ActionType  string `gorm:"column:action_type;type:text;not null"`
	Description string `gorm:"column:description;type:text"`
	RiskLevel   string `gorm:"column:risk_level;type:text;not null"`
	DiffPreview string `gorm:"column:diff_preview;type:text"`
	Rationale   string `gorm:"column:rationale;type:text"`
	BundleID    string `gorm:"column:bundle_id;type:text;index:idx_queue_bundle_id"`
	Status      string `gorm:"column:status;type:text;not null;index:idx_queue_status"`
	CreatedAt   int64  `gorm:"column:created_at;not null;index:idx_queue_created_at"`
	UpdatedAt   int64  `gorm:"column:updated_at;not null"`
}

func (ApprovalQueueItem) TableName() string { return "approval_queue" }
