package models

type ApprovalRule struct {
	ID          string `gorm:"column:id;type:text;primaryKey"`
	Name        string `gorm:"column:name;type:text;not null"`
	ActionType  string `gorm:"column:action_type;type:text;not null;index:idx_rules_action_type"`
	RiskLevel   string `gorm:"column:risk_level;type:text;not null"`
	AutoApprove bool   `gorm:"column:auto_approve;not null"`
	Pattern     string `gorm:"column:pattern;type:text"`
	CreatedAt   int64  `gorm:"column:created_at;not null"`
	UpdatedAt   int64  `gorm:"column:updated_at;not null"`
}

func (ApprovalRule) TableName() string { return "approval_rules" }
