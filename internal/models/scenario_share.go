package models

// SharePermission is the access level granted by a scenario share.
type SharePermission string

const (
	PermissionReadOnly  SharePermission = "ro"
	PermissionReadWrite SharePermission = "rw"
)

// ScenarioShare grants another user access to a scenario. At most one share
// may exist per (scenario, shared-with user) pair.
type ScenarioShare struct {
	Base
	ScenarioID       string          `gorm:"type:uuid;not null;index;uniqueIndex:idx_share_scenario_user" json:"scenario_id"`
	SharedWithUserID string          `gorm:"type:uuid;not null;uniqueIndex:idx_share_scenario_user" json:"shared_with_user_id"`
	SharedByUserID   string          `gorm:"type:uuid;not null" json:"shared_by_user_id"`
	Permission       SharePermission `gorm:"size:2;not null" json:"permission"`
	IsActive         bool            `gorm:"default:true" json:"is_active"`
}
