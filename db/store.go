package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/quailyquaily/warden/db/models"
	"github.com/quailyquaily/warden/engine"
)

// Store implements engine.Store over a GORM handle. Every mutating method is
// a single statement, so SQLite's write atomicity is enough; the engine
// assumes a single logical writer.
type Store struct {
	gdb *gorm.DB
}

func NewStore(gdb *gorm.DB) (*Store, error) {
	if gdb == nil {
		return nil, fmt.Errorf("nil gorm db")
	}
	return &Store{gdb: gdb}, nil
}

var _ engine.Store = (*Store)(nil)

func ruleToModel(r engine.Rule) models.ApprovalRule {
	return models.ApprovalRule{
		ID:          r.ID,
		Name:        r.Name,
		ActionType:  r.ActionType,
		RiskLevel:   string(r.Level),
		AutoApprove: r.AutoApprove,
		Pattern:     r.Pattern,
		CreatedAt:   r.CreatedAt.Unix(),
		UpdatedAt:   r.UpdatedAt.Unix(),
	}
}

func ruleFromModel(m models.ApprovalRule) engine.Rule {
	return engine.Rule{
		ID:          m.ID,
		Name:        m.Name,
		ActionType:  m.ActionType,
		Level:       engine.RiskLevel(m.RiskLevel),
		AutoApprove: m.AutoApprove,
		Pattern:     m.Pattern,
		CreatedAt:   time.Unix(m.CreatedAt, 0).UTC(),
		UpdatedAt:   time.Unix(m.UpdatedAt, 0).UTC(),
	}
}

func (s *Store) Rules(ctx context.Context) ([]engine.Rule, error) {
	var rows []models.ApprovalRule
	if err := s.gdb.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]engine.Rule, 0, len(rows))
	for _, m := range rows {
		out = append(out, ruleFromModel(m))
	}
	return out, nil
}

func (s *Store) RulesByActionType(ctx context.Context, actionType string) ([]engine.Rule, error) {
	var rows []models.ApprovalRule
	err := s.gdb.WithContext(ctx).
		Where("action_type = ?", actionType).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]engine.Rule, 0, len(rows))
	for _, m := range rows {
		out = append(out, ruleFromModel(m))
	}
	return out, nil
}

func (s *Store) GetRule(ctx context.Context, id string) (engine.Rule, bool, error) {
	var m models.ApprovalRule
	err := s.gdb.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return engine.Rule{}, false, nil
	}
	if err != nil {
		return engine.Rule{}, false, err
	}
	return ruleFromModel(m), true, nil
}

func (s *Store) CountRules(ctx context.Context) (int64, error) {
	var n int64
	err := s.gdb.WithContext(ctx).Model(&models.ApprovalRule{}).Count(&n).Error
	return n, err
}

func (s *Store) CreateRule(ctx context.Context, r engine.Rule) error {
	m := ruleToModel(r)
	return s.gdb.WithContext(ctx).Create(&m).Error
}

func (s *Store) UpdateRule(ctx context.Context, r engine.Rule) error {
	m := ruleToModel(r)
	res := s.gdb.WithContext(ctx).Model(&models.ApprovalRule{}).Where("id = ?", m.ID).Updates(map[string]any{
		"name":         m.Name,
		"action_type":  m.ActionType,
		"risk_level":   m.RiskLevel,
		"auto_approve": m.AutoApprove,
		"pattern":      m.Pattern,
		"updated_at":   m.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return engine.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteRule(ctx context.Context, id string) error {
	res := s.gdb.WithContext(ctx).Where("id = ?", id).Delete(&models.ApprovalRule{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return engine.ErrNotFound
	}
	return nil
}

func itemToModel(it engine.QueueItem) models.ApprovalQueueItem {
	return models.ApprovalQueueItem{
		ID:          it.ID,
		ActionID:    it.ActionID,
		ActionType:  it.ActionType,
		Description: it.Description,
		RiskLevel:   string(it.Level),
		DiffPreview: it.DiffPreview,
		Rationale:   it.Rationale,
		BundleID:    it.BundleID,
		Status:      string(it.Status),
		CreatedAt:   it.CreatedAt.Unix(),
		UpdatedAt:   time.Now().UTC().Unix(),
	}
}

func itemFromModel(m models.ApprovalQueueItem) engine.QueueItem {
	return engine.QueueItem{
		ID:          m.ID,
		ActionID:    m.ActionID,
		ActionType:  m.ActionType,
		Description: m.Description,
		Level:       engine.RiskLevel(m.RiskLevel),
		DiffPreview: m.DiffPreview,
		Rationale:   m.Rationale,
		BundleID:    m.BundleID,
		Status:      engine.Status(m.Status),
		CreatedAt:   time.Unix(m.CreatedAt, 0).UTC(),
	}
}

func (s *Store) InsertItem(ctx context.Context, it engine.QueueItem) error {
	m := itemToModel(it)
	return s.gdb.WithContext(ctx).Create(&m).Error
}

func (s *Store) GetItem(ctx context.Context, id string) (engine.QueueItem, bool, error) {
	var m models.ApprovalQueueItem
	err := s.gdb.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return engine.QueueItem{}, false, nil
	}
	if err != nil {
		return engine.QueueItem{}, false, err
	}
	return itemFromModel(m), true, nil
}

func (s *Store) UpdateItem(ctx context.Context, it engine.QueueItem) error {
	res := s.gdb.WithContext(ctx).Model(&models.ApprovalQueueItem{}).Where("id = ?", it.ID).Updates(map[string]any{
		"risk_level": string(it.Level),
		"status":     string(it.Status),
		"updated_at": time.Now().UTC().Unix(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return engine.ErrNotFound
	}
	return nil
}

func (s *Store) PendingItems(ctx context.Context, limit int) ([]engine.QueueItem, error) {
	q := s.gdb.WithContext(ctx).
		Where("status IN ?", []string{string(engine.StatusPending), string(engine.StatusEscalated)}).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []models.ApprovalQueueItem
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]engine.QueueItem, 0, len(rows))
	for _, m := range rows {
		out = append(out, itemFromModel(m))
	}
	return out, nil
}

func (s *Store) BundleItems(ctx context.Context, bundleID string) ([]engine.QueueItem, error) {
	var rows []models.ApprovalQueueItem
	err := s.gdb.WithContext(ctx).
		Where("bundle_id = ?", bundleID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]engine.QueueItem, 0, len(rows))
	for _, m := range rows {
		out = append(out, itemFromModel(m))
	}
	return out, nil
}

func (s *Store) AppendRecord(ctx context.Context, rec engine.Record) error {
	m := models.ApprovalRecord{
		ID:           rec.ID,
		ApprovalID:   rec.ApprovalID,
		ActionID:     rec.ActionID,
		ActionType:   rec.ActionType,
		RiskLevel:    string(rec.Level),
		Decision:     string(rec.Decision),
		Approver:     rec.Approver,
		ApproverRole: string(rec.Role),
		Authority:    string(rec.Authority),
		Comments:     rec.Comments,
		EscalationID: rec.EscalationID,
		CreatedAt:    rec.CreatedAt.Unix(),
	}
	return s.gdb.WithContext(ctx).Create(&m).Error
}

func (s *Store) Records(ctx context.Context, f engine.HistoryFilter) ([]engine.Record, error) {
	q := s.gdb.WithContext(ctx).Model(&models.ApprovalRecord{})
	if f.ActionType != "" {
		q = q.Where("action_type = ?", f.ActionType)
	}
	if f.Level != "" {
		q = q.Where("risk_level = ?", string(f.Level))
	}
	if f.Approver != "" {
		q = q.Where("approver = ?", f.Approver)
	}
	if f.Role != "" {
		q = q.Where("approver_role = ?", string(f.Role))
	}
	if !f.Since.IsZero() {
		q = q.Where("created_at >= ?", f.Since.Unix())
	}
	if !f.Until.IsZero() {
		q = q.Where("created_at <= ?", f.Until.Unix())
	}
	q = q.Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var rows []models.ApprovalRecord
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]engine.Record, 0, len(rows))
	for _, m := range rows {
		out = append(out, engine.Record{
			ID:           m.ID,
			ApprovalID:   m.ApprovalID,
			ActionID:     m.ActionID,
			ActionType:   m.ActionType,
			Level:        engine.RiskLevel(m.RiskLevel),
			Decision:     engine.Status(m.Decision),
			Approver:     m.Approver,
			Role:         engine.ApproverRole(m.ApproverRole),
			Authority:    engine.ApproverRole(m.Authority),
			Comments:     m.Comments,
			EscalationID: m.EscalationID,
			CreatedAt:    time.Unix(m.CreatedAt, 0).UTC(),
		})
	}
	return out, nil
}

func escalationFromModel(m models.EscalationRecord) engine.Escalation {
	return engine.Escalation{
		ID:          m.ID,
		ApprovalID:  m.ApprovalID,
		ActionID:    m.ActionID,
		FromLevel:   engine.RiskLevel(m.FromLevel),
		EscalatedTo: engine.ApproverRole(m.EscalatedTo),
		Reason:      m.Reason,
		EscalatedBy: m.EscalatedBy,
		Resolved:    m.Resolved,
		CreatedAt:   time.Unix(m.CreatedAt, 0).UTC(),
	}
}

func (s *Store) AppendEscalation(ctx context.Context, esc engine.Escalation) error {
	m := models.EscalationRecord{
		ID:          esc.ID,
		ApprovalID:  esc.ApprovalID,
		ActionID:    esc.ActionID,
		FromLevel:   string(esc.FromLevel),
		EscalatedTo: string(esc.EscalatedTo),
		Reason:      esc.Reason,
		EscalatedBy: esc.EscalatedBy,
		Resolved:    esc.Resolved,
		CreatedAt:   esc.CreatedAt.Unix(),
	}
	return s.gdb.WithContext(ctx).Create(&m).Error
}

func (s *Store) GetEscalation(ctx context.Context, id string) (engine.Escalation, bool, error) {
	var m models.EscalationRecord
	err := s.gdb.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return engine.Escalation{}, false, nil
	}
	if err != nil {
		return engine.Escalation{}, false, err
	}
	return escalationFromModel(m), true, nil
}

func (s *Store) MarkEscalationResolved(ctx context.Context, id string) error {
	res := s.gdb.WithContext(ctx).Model(&models.EscalationRecord{}).
		Where("id = ?", id).
		Update("resolved", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return engine.ErrNotFound
	}
	return nil
}

func (s *Store) Escalations(ctx context.Context, f engine.EscalationFilter) ([]engine.Escalation, error) {
	q := s.gdb.WithContext(ctx).Model(&models.EscalationRecord{})
	if f.ActionID != "" {
		q = q.Where("action_id = ?", f.ActionID)
	}
	if !f.IncludeResolved {
		q = q.Where("resolved = ?", false)
	}
	q = q.Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var rows []models.EscalationRecord
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]engine.Escalation, 0, len(rows))
	for _, m := range rows {
		out = append(out, escalationFromModel(m))
	}
	return out, nil
}

func (s *Store) LatestOpenEscalation(ctx context.Context, approvalID string) (engine.Escalation, bool, error) {
	var m models.EscalationRecord
	err := s.gdb.WithContext(ctx).
		Where("approval_id = ? AND resolved = ?", approvalID, false).
		Order("created_at DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return engine.Escalation{}, false, nil
	}
	if err != nil {
		return engine.Escalation{}, false, err
	}
	return escalationFromModel(m), true, nil
}
