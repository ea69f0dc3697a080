package models

// Protein is a predicted protein; ids are unique across the whole store.
type Protein struct {
	ProtID      string `gorm:"column:prot_id;primaryKey;size:255" json:"protId"`
	OrgID       string `gorm:"column:org_id;size:255;not null;index" json:"orgId"`
	Description string `gorm:"size:2048" json:"description"`
	Sequence    string `gorm:"type:text" json:"sequence"`
}

func (Protein) TableName() string {
	return "protein"
}

// Ortholog is one membership edge of an ortholog group.
type Ortholog struct {
	GroupID string `gorm:"column:group_id;primaryKey;size:255" json:"groupId"`
	ProtID  string `gorm:"column:prot_id;primaryKey;size:255;index" json:"protId"`
}

func (Ortholog) TableName() string {
	return "ortholog"
}

// MapKO links a protein to an ontology term.
type MapKO struct {
	ProtID string `gorm:"column:prot_id;primaryKey;size:255" json:"protId"`
	KOID   string `gorm:"column:ko_id;primaryKey;size:64;index" json:"koId"`
}

func (MapKO) TableName() string {
	return "mapko"
}

// GroupCount is a pangenome group with its number of distinct owning organisms.
type GroupCount struct {
	GroupID string `gorm:"column:group_id" json:"groupId"`
	Orgs    int    `gorm:"column:orgs" json:"orgs"`
}

// ReactionCount is a reaction with the number of distinct ortholog groups
// contributing it.
type ReactionCount struct {
	ReID   string `gorm:"column:re_id" json:"reId"`
	Groups int    `gorm:"column:n_groups" json:"groups"`
}
