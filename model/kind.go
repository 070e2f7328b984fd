package model

// PostType is the row discriminator of the posts table.
type PostType string

const (
	PostTypeEvent      PostType = "event_listing"
	PostTypeDJ         PostType = "event_dj"
	PostTypeLocal      PostType = "event_local"
	PostTypeAttachment PostType = "attachment"
	PostTypePage       PostType = "page"
)

type Status string

const (
	StatusPreview Status = "preview"
	StatusPending Status = "pending"
	StatusPublish Status = "publish"
	StatusExpired Status = "expired"
	StatusTrash   Status = "trash"
	StatusDraft   Status = "draft"
	StatusInherit Status = "inherit"
)

// StatusLabels are the human readable names shown on dashboards.
var StatusLabels = map[Status]string{
	StatusPreview: "Preview",
	StatusPending: "Pending approval",
	StatusPublish: "Active",
	StatusExpired: "Expired",
	StatusDraft:   "Draft",
}

func (s Status) Label() string {
	if l, ok := StatusLabels[s]; ok {
		return l
	}
	return "Inactive"
}

const (
	TaxonomyEventType = "event_listing_type"
	TaxonomyCategory  = "event_sounds"
)

// Kind is one of the three submittable entity kinds.
type Kind string

const (
	KindEvent Kind = "event"
	KindDJ    Kind = "dj"
	KindLocal Kind = "local"
)

var Kinds = []Kind{KindEvent, KindDJ, KindLocal}

func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindEvent, KindDJ, KindLocal:
		return Kind(s), true
	}
	return "", false
}

func (k Kind) PostType() PostType {
	switch k {
	case KindDJ:
		return PostTypeDJ
	case KindLocal:
		return PostTypeLocal
	}
	return PostTypeEvent
}

func KindOf(t PostType) (Kind, bool) {
	switch t {
	case PostTypeEvent:
		return KindEvent, true
	case PostTypeDJ:
		return KindDJ, true
	case PostTypeLocal:
		return KindLocal, true
	}
	return "", false
}

// Capability is the capability an actor needs to manage entities of the kind.
func (k Kind) Capability() string {
	switch k {
	case KindDJ:
		return CapManageDJs
	case KindLocal:
		return CapManageLocals
	}
	return CapManageEventListings
}

// NameKey and DescriptionKey are the schema keys mapped onto post title and content.
func (k Kind) NameKey() string {
	if k == KindEvent {
		return "event_title"
	}
	return string(k) + "_name"
}

func (k Kind) DescriptionKey() string {
	return string(k) + "_description"
}

// LogoKey is the file field whose first attachment becomes the thumbnail.
func (k Kind) LogoKey() string {
	if k == KindEvent {
		return "event_banner"
	}
	return string(k) + "_logo"
}
