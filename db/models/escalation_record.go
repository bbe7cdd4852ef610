package models

type EscalationRecord struct {
	ID          string `gorm:"column:id;type:text;primaryKey"`
	ApprovalID  string `gorm:"column:approval_id;type:text;not null;index:idx_escalations_approval_id"`
	ActionID    string `gorm:"column:action_id;type:text;not null;index:idx_escalations_action_id"`
	FromLevel   string `gorm:"column:from_level;type:text;not null"`
	EscalatedTo string `gorm:"column:escalated_to;type:text;not null"`
	Reason      string `gorm:"column:reason;type:text"`
	EscalatedBy string `gorm:"column:escalated_by;type:text;not null"`
	Resolved    bool   `gorm:"column:resolved;not null"`
	CreatedAt   int64  `gorm:"column:created_at;not null;index:idx_escalations_created_at"`
}

func (EscalationRecord) TableName() string { return "escalation_records" }
