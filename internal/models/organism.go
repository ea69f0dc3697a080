package models

// Organism is a genome/strain record, possibly a mutant of a reference organism.
type Organism struct {
	OrgID       string  `gorm:"column:org_id;primaryKey;size:255" json:"orgId"`
	Name        string  `gorm:"size:255" json:"name"`
	Description string  `gorm:"size:1024" json:"description"`
	File        string  `gorm:"size:1024" json:"file"`
	Mutant      bool    `gorm:"not null;default:false;index" json:"mutant"`
	Reference   *string `gorm:"size:255;index" json:"reference"`
	MKind       string  `gorm:"column:mkind;size:64" json:"mkind"`
	Color       *string `gorm:"size:32" json:"color"`
	Genome      string  `gorm:"size:64;not null;default:none" json:"genome"`
	Phenome     string  `gorm:"size:64;not null;default:none" json:"phenome"`
}

func (Organism) TableName() string {
	return "organism"
}

// ReferenceID returns the reference organism id or "" when unset.
func (o Organism) ReferenceID() string {
	if o.Reference == nil {
		return ""
	}
	return *o.Reference
}
