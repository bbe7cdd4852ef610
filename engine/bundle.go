package engine

import "context"

// BulkApprove applies one approval decision across every member of a bundle,
// oldest first. Ids in vetoIDs are skipped without any state change and
// reported as vetoed. One member failing does not roll back the members
// already decided; every outcome is reported.
func (e *Engine) BulkApprove(ctx context.Context, bundleID string, d Decision, vetoIDs []string) ([]BundleResult, error) {
	return e.bulkDecide(ctx, bundleID, StatusApproved, d, vetoIDs)
}

// BulkReject rejects every member of a bundle. There is no veto support on
// rejection.
func (e *Engine) BulkReject(ctx context.Context, bundleID string, d Decision) ([]BundleResult, error) {
	return e.bulkDecide(ctx, bundleID, StatusRejected, d, nil)
}

func (e *Engine) bulkDecide(ctx context.Context, bundleID string, decision Status, d Decision, vetoIDs []string) ([]BundleResult, error) {
	items, err := e.BundleApprovals(ctx, bundleID)
	if err != nil {
		return nil, err
	}

	vetoed := make(map[string]bool, len(vetoIDs))
	for _, id := range vetoIDs {
		vetoed[id] = true
	}

	results := make([]BundleResult, 0, len(items))
	for _, it := range items {
		if vetoed[it.ID] {
			results = append(results, BundleResult{ApprovalID: it.ID, Outcome: OutcomeVetoed})
			continue
		}
		rec, err := e.decide(ctx, it.ID, decision, d)
		if err != nil {
			results = append(results, BundleResult{ApprovalID: it.ID, Outcome: OutcomeFailed, Err: err})
			continue
		}
		outcome := OutcomeApproved
		if decision == StatusRejected {
			outcome = OutcomeRejected
		}
		results = append(results, BundleResult{ApprovalID: it.ID, Outcome: outcome, RecordID: rec.ID})
	}

	e.log.Info("bundle_decided",
		"bundle_id", bundleID,
		"decision", string(decision),
		"items", len(items),
		"vetoed", len(vetoIDs),
	)
	return results, nil
}
