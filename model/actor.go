package model

const (
	CapManageOptions       = "manage_options"
	CapManageEventListings = "manage_event_listings"
	CapManageDJs           = "manage_djs"
	CapManageLocals        = "manage_locals"
	CapUploadFiles         = "upload_files"
	CapRead                = "read"

	RoleAdministrator = "administrator"
	RoleDJ            = "dj"
)

// Actor is the user behind a request. The zero value is an anonymous visitor.
type Actor struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name,omitempty"`
	Roles []string        `json:"roles,omitempty"`
	Caps  map[string]bool `json:"-"`
}

func (a *Actor) LoggedIn() bool {
	return a != nil && a.ID > 0
}

func (a *Actor) Can(capability string) bool {
	if !a.LoggedIn() {
		return false
	}
	return a.Caps[capability]
}

func (a *Actor) HasRole(role string) bool {
	if a == nil {
		return false
	}
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a *Actor) IsAdmin() bool {
	return a.HasRole(RoleAdministrator) || a.Can(CapManageOptions)
}
