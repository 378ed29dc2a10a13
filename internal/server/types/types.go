// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package types

type AuthLoginRequest struct {
	TenantID string `json:"tenant_id"`
	Secret   string `json:"secret"`
}

type AuthLoginResponse struct {
	Token    string   `json:"token"`
	TenantID string   `json:"tenant_id"`
	Roles    []string `json:"roles"`
}

type MeResponse struct {
	TenantID string   `json:"tenant_id"`
	Roles    []string `json:"roles"`
	Grants   []string `json:"grants"`
}

type ReportTypeInfo struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Kind        string         `json:"kind"`
	ContentType string         `json:"content_type"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type ReportTypesResponse struct {
	Types []ReportTypeInfo `json:"types"`
}

type ReportGenerateRequest struct {
	TypeID     string         `path:"typeId"`
	TenantID   string         `json:"tenant_id,optional"`
	Parameters map[string]any `json:"parameters,optional"`
}

type JobInfo struct {
	ID          string `json:"id"`
	TenantID    string `json:"tenant_id"`
	TypeID      string `json:"type_id"`
	Status      string `json:"status"`
	ErrorDetail string `json:"error_detail,omitempty"`
	CreatedAt   string `json:"created_at"`
	CompletedAt string `json:"completed_at,omitempty"`
}

type ReportGenerateResponse struct {
	Job JobInfo `json:"job"`
}

type ReportJobsListRequest struct {
	TenantID string `form:"tenant_id,optional"`
	TypeID   string `form:"type_id,optional"`
	Status   string `form:"status,optional"`
	From     string `form:"from,optional"`
	To       string `form:"to,optional"`
	Page     int    `form:"page,optional,default=1"`
	Size     int    `form:"size,optional,default=20"`
}

type ReportJobsListResponse struct {
	Jobs  []JobInfo `json:"jobs"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
}

type ReportJobRequest struct {
	ID string `path:"id"`
}

type StatsResponse struct {
	Claimed    int64 `json:"claimed"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
	QueueDepth int   `json:"queue_depth"`
}

type GameInfo struct {
	ID          uint   `json:"id"`
	TenantID    string `json:"tenant_id"`
	Name        string `json:"name"`
	Provider    string `json:"provider,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Enabled     bool   `json:"enabled"`
}

type GamesListRequest struct {
	TenantID string `form:"tenant_id,optional"`
}

type GamesListResponse struct {
	Games []GameInfo `json:"games"`
}

type GameCreateRequest struct {
	TenantID    string `json:"tenant_id,optional"`
	Name        string `json:"name"`
	Provider    string `json:"provider,optional"`
	Description string `json:"description,optional"`
	Status      string `json:"status,optional"`
	Enabled     bool   `json:"enabled,optional"`
}

type GameUpdateRequest struct {
	ID          uint   `path:"id"`
	Name        string `json:"name,optional"`
	Provider    string `json:"provider,optional"`
	Description string `json:"description,optional"`
	Status      string `json:"status,optional"`
	Enabled     *bool  `json:"enabled,optional"`
}

type GameRequest struct {
	ID uint `path:"id"`
}

type WalletOpenRequest struct {
	PlayerID string `json:"player_id"`
	Currency string `json:"currency,optional,default=EUR"`
	Balance  string `json:"balance,optional"`
}

type WalletSessionInfo struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	PlayerID string `json:"player_id"`
	Currency string `json:"currency"`
	Balance  string `json:"balance"`
	OpenedAt string `json:"opened_at"`
	ClosedAt string `json:"closed_at,omitempty"`
}

type WalletSessionRequest struct {
	ID string `path:"id"`
}

type WalletAdjustRequest struct {
	ID    string `path:"id"`
	Delta string `json:"delta"`
}
