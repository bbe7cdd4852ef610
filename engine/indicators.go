package engine

// Indicator maps an action type to a baseline risk level plus keywords used
// for secondary matching against free-text description and path fields.
// Indicators are consulted in slice order, so the table must stay a slice.
type Indicator struct {
	ActionType string
	Level      RiskLevel
	Keywords   []string
}

// DefaultIndicators is the built-in indicator table. Baselines reflect how
// reversible each action class is; keywords let a higher-risk indicator pull
// up an otherwise mundane action that mentions its territory.
func DefaultIndicators() []Indicator {
	return []Indicator{
		{ActionType: "file-read", Level: RiskLow},
		{ActionType: "file-write", Level: RiskLow, Keywords: []string{"overwrite", "truncate"}},
		{ActionType: "file-delete", Level: RiskMedium, Keywords: []string{"delete", "remove", "unlink"}},
		{ActionType: "delete-dir", Level: RiskHigh, Keywords: []string{"rmdir", "recursive", "rm -rf"}},
		{ActionType: "git-commit", Level: RiskLow, Keywords: []string{"commit"}},
		{ActionType: "git-push", Level: RiskMedium, Keywords: []string{"push", "force-push"}},
		{ActionType: "git-merge", Level: RiskHigh, Keywords: []string{"merge", "rebase", "reset --hard"}},
		{ActionType: "command-run", Level: RiskMedium, Keywords: []string{"sudo", "chmod", "chown"}},
		{ActionType: "db-migration", Level: RiskCritical, Keywords: []string{"migration", "drop table", "alter table", "truncate table"}},
		{ActionType: "deploy", Level: RiskCritical, Keywords: []string{"deploy", "production", "rollout"}},
		{ActionType: "secrets-access", Level: RiskCritical, Keywords: []string{"secret", "credential", "password", "api key", "token"}},
	}
}
