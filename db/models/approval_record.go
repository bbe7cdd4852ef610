package models

type ApprovalRecord struct {
	ID           string `gorm:"column:id;type:text;primaryKey"`
	ApprovalID   string `gorm:"column:approval_id;type:text;not null;index:idx_records_approval_id"`
	ActionID     string `gorm:"column:action_id;type:text;not null"`
	ActionType   string `gorm:"column:action_type;type:text;not null;index:idx_records_action_type"`
	RiskLevel    string `gorm:"column:risk_level;type:text;not null"`
	Decision     string `gorm:"column:decision;type:text;not null"`
	Approver     string `gorm:"column:approver;type:text;not null;index:idx_records_approver"`
	ApproverRole string `gorm:"column:approver_role;type:text"`
	Authority    string `gorm:"column:authority;type:text"`
	Comments     string `gorm:"column:comments;type:text"`
	EscalationID string `gorm:"column:escalation_id;type:text"`
	CreatedAt    int64  `gorm:"column:created_at;not null;index:idx_records_created_at"`
}

func (ApprovalRecord) TableName() string { return "approval_records" }
