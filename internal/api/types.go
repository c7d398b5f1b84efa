package api

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Me is returned by GET /auth/me.
type Me struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// MessageResponse is the generic acknowledgement shape used by mutating
// endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// Rule is a single inference rule: when all premises hold, the conclusion
// holds. IDs are positional and reassigned by the service on mutation.
type Rule struct {
	ID         int      `json:"id"`
	Premises   []string `json:"premises"`
	Conclusion string   `json:"conclusion"`
}

// RulesResponse is returned by GET /rules.
type RulesResponse struct {
	Rules []Rule `json:"rules"`
}

// AddRuleResponse acknowledges a rule insertion with its assigned ID.
type AddRuleResponse struct {
	Message string `json:"message"`
	ID      int    `json:"id"`
}

// AtomsResponse is returned by GET /facts/atoms.
type AtomsResponse struct {
	Atoms []string `json:"atoms"`
}

// ConclusionsResponse is returned by GET /facts/conclusions.
type ConclusionsResponse struct {
	Conclusions []string `json:"conclusions"`
}

// KnownFactsResponse is returned by GET /facts/known. UserFacts are the
// facts the user asserted; DerivedFacts were produced by inference.
type KnownFactsResponse struct {
	UserFacts    []string `json:"user_facts"`
	DerivedFacts []string `json:"derived_facts"`
}

// FalseFactsResponse is returned by GET /facts/false.
type FalseFactsResponse struct {
	Facts []string `json:"facts"`
}

// ForwardResult is returned by POST /inference/forward. Path holds the rule
// IDs fired, in order.
type ForwardResult struct {
	Conclusions  []string `json:"conclusions"`
	Path         []int    `json:"path"`
	Rules        []Rule   `json:"rules"`
	KnownFacts   []string `json:"known_facts"`
	DerivedFacts []string `json:"derived_facts"`
}

// Backward inference step statuses.
const (
	BackwardSuccess = "success"
	BackwardFailed  = "failed"
	BackwardQuery   = "query"
)

// BackwardResult is one step of a backward-chaining session. While Status is
// BackwardQuery the service is waiting for the caller to confirm or deny the
// facts in QueryFacts via ContinueBackward.
type BackwardResult struct {
	Status       string   `json:"status"`
	Message      string   `json:"message"`
	Target       string   `json:"target"`
	Path         []int    `json:"path"`
	Rules        []Rule   `json:"rules"`
	KnownFacts   []string `json:"known_facts"`
	DerivedFacts []string `json:"derived_facts"`
	QueryFacts   []string `json:"query_facts,omitempty"`
}

// HistoryEntry is a stored inference run.
type HistoryEntry struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	Type       string   `json:"type"`
	Facts      []string `json:"facts"`
	Conclusion string   `json:"conclusion"`
	Path       []int    `json:"path"`
	Timestamp  string   `json:"timestamp"`
}

// HistoryPage is returned by GET /history.
type HistoryPage struct {
	History []HistoryEntry `json:"history"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

// User is an account as seen by the admin endpoints.
type User struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// UsersResponse is returned by GET /admin/users.
type UsersResponse struct {
	Users []User `json:"users"`
}
