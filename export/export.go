// Package export serializes approval history and escalation records for
// reporting. Supported formats are json, yaml, and csv.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quailyquaily/warden/engine"
)

// ErrUnsupportedFormat means the requested serialization format is not one
// of json, yaml, or csv.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format is a supported serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ParseFormat normalizes a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

type historyRow struct {
	ID           string `json:"id" yaml:"id"`
	ApprovalID   string `json:"approval_id" yaml:"approval_id"`
	ActionID     string `json:"action_id" yaml:"action_id"`
	ActionType   string `json:"action_type" yaml:"action_type"`
	RiskLevel    string `json:"risk_level" yaml:"risk_level"`
	Decision     string `json:"decision" yaml:"decision"`
	Approver     string `json:"approver" yaml:"approver"`
	ApproverRole string `json:"approver_role,omitempty" yaml:"approver_role,omitempty"`
	Authority    string `json:"authority,omitempty" yaml:"authority,omitempty"`
	Comments     string `json:"comments,omitempty" yaml:"comments,omitempty"`
	EscalationID string `json:"escalation_id,omitempty" yaml:"escalation_id,omitempty"`
	CreatedAt    string `json:"created_at" yaml:"created_at"`
}

// History writes approval records to w in the given format.
func History(w io.Writer, format Format, records []engine.Record) error {
	rows := make([]historyRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, historyRow{
			ID:           r.ID,
			ApprovalID:   r.ApprovalID,
			ActionID:     r.ActionID,
			ActionType:   r.ActionType,
			RiskLevel:    string(r.Level),
			Decision:     string(r.Decision),
			Approver:     r.Approver,
			ApproverRole: string(r.Role),
			Authority:    string(r.Authority),
			Comments:     r.Comments,
			EscalationID: r.EscalationID,
			CreatedAt:    r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(rows)
	case FormatCSV:
		cw := csv.NewWriter(w)
		header := []string{"id", "approval_id", "action_id", "action_type", "risk_level", "decision", "approver", "approver_role", "authority", "comments", "escalation_id", "created_at"}
		if err := cw.Write(header); err != nil {
			return err
		}
		for _, r := range rows {
			rec := []string{r.ID, r.ApprovalID, r.ActionID, r.ActionType, r.RiskLevel, r.Decision, r.Approver, r.ApproverRole, r.Authority, r.Comments, r.EscalationID, r.CreatedAt}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

type escalationRow struct {
	ID          string `json:"id" yaml:"id"`
	ApprovalID  string `json:"approval_id" yaml:"approval_id"`
	ActionID    string `json:"action_id" yaml:"action_id"`
	FromLevel   string `json:"from_level" yaml:"from_level"`
	EscalatedTo string `json:"escalated_to" yaml:"escalated_to"`
	Reason      string `json:"reason,omitempty" yaml:"reason,omitempty"`
	EscalatedBy string `json:"escalated_by" yaml:"escalated_by"`
	Resolved    bool   `json:"resolved" yaml:"resolved"`
	CreatedAt   string `json:"created_at" yaml:"created_at"`
}

// Escalations writes escalation records to w in the given format.
func Escalations(w io.Writer, format Format, escs []engine.Escalation) error {
	rows := make([]escalationRow, 0, len(escs))
	for _, e := range escs {
		rows = append(rows, escalationRow{
			ID:          e.ID,
			ApprovalID:  e.ApprovalID,
			ActionID:    e.ActionID,
			FromLevel:   string(e.FromLevel),
			EscalatedTo: string(e.EscalatedTo),
			Reason:      e.Reason,
			EscalatedBy: e.EscalatedBy,
			Resolved:    e.Resolved,
			CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(rows)
	case FormatCSV:
		cw := csv.NewWriter(w)
		header := []string{"id", "approval_id", "action_id", "from_level", "escalated_to", "reason", "escalated_by", "resolved", "created_at"}
		if err := cw.Write(header); err != nil {
			return err
		}
		for _, r := range rows {
			rec := []string{r.ID, r.ApprovalID, r.ActionID, r.FromLevel, r.EscalatedTo, r.Reason, r.EscalatedBy, strconv.FormatBool(r.Resolved), r.CreatedAt}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
