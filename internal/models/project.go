package models

import (
	"strings"
	"time"
)

// Status values shared by the project and organism genome/phenome flags.
// Other values written by the analysis pipeline are stored verbatim.
const (
	StatusNone    = "none"
	StatusRunning = "running"
	StatusDone    = "done"
)

// ProjectRowID is the fixed primary key of the singleton project row.
const ProjectRowID = 1

// Project is the single project descriptor with its aggregate status flags.
type Project struct {
	ID          int       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"size:1024" json:"description"`
	Kind        string    `gorm:"size:64" json:"kind"`
	Tmp         *string   `json:"tmp,omitempty"`
	Creation    time.Time `json:"creation"`
	Last        time.Time `json:"last"`
	Genome      string    `gorm:"size:64;not null;default:none" json:"genome"`
	Phenome     string    `gorm:"size:64;not null;default:none" json:"phenome"`
	Pangenome   bool      `gorm:"not null;default:false" json:"pangenome"`
}

func (Project) TableName() string {
	return "project"
}

func (p Project) String() string {
	return strings.Join([]string{
		p.Name,
		p.Description,
		p.Kind,
		p.Creation.Format(time.ANSIC),
		p.Last.Format(time.ANSIC),
	}, " - ")
}

