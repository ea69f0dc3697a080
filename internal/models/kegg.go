package models

// KO is an ontology term. Draft terms carry only the id until analyzed.
type KO struct {
	KOID        string `gorm:"column:ko_id;primaryKey;size:64" json:"koId"`
	Name        string `gorm:"size:255" json:"name"`
	Description string `gorm:"size:2048" json:"description"`
	Analyzed    bool   `gorm:"not null;default:false;index" json:"analyzed"`
}

func (KO) TableName() string {
	return "ko"
}

type Reaction struct {
	ReID        string `gorm:"column:re_id;primaryKey;size:64" json:"reId"`
	Name        string `gorm:"size:255" json:"name"`
	Description string `gorm:"size:2048" json:"description"`
}

func (Reaction) TableName() string {
	return "reaction"
}

type Compound struct {
	CoID        string `gorm:"column:co_id;primaryKey;size:64" json:"coId"`
	Name        string `gorm:"size:255" json:"name"`
	Description string `gorm:"size:2048" json:"description"`
}

func (Compound) TableName() string {
	return "compound"
}

type Pathway struct {
	PathID      string `gorm:"column:path_id;primaryKey;size:64" json:"pathId"`
	Name        string `gorm:"size:255" json:"name"`
	Description string `gorm:"size:2048" json:"description"`
}

func (Pathway) TableName() string {
	return "pathway"
}

type KOReact struct {
	KOID string `gorm:"column:ko_id;primaryKey;size:64" json:"koId"`
	ReID string `gorm:"column:re_id;primaryKey;size:64;index" json:"reId"`
}

func (KOReact) TableName() string {
	return "ko_react"
}

type ReactComp struct {
	ReID string `gorm:"column:re_id;primaryKey;size:64" json:"reId"`
	CoID string `gorm:"column:co_id;primaryKey;size:64;index" json:"coId"`
}

func (ReactComp) TableName() string {
	return "react_comp"
}

type ReactPath struct {
	ReID   string `gorm:"column:re_id;primaryKey;size:64" json:"reId"`
	PathID string `gorm:"column:path_id;primaryKey;size:64;index" json:"pathId"`
}

func (ReactPath) TableName() string {
	return "react_path"
}

type CompPath struct {
	CoID   string `gorm:"column:co_id;primaryKey;size:64" json:"coId"`
	PathID string `gorm:"column:path_id;primaryKey;size:64;index" json:"pathId"`
}

func (CompPath) TableName() string {
	return "comp_path"
}

// PathMap holds the rendered map of a pathway.
type PathMap struct {
	PathID string `gorm:"column:path_id;primaryKey;size:64" json:"pathId"`
	HTML   string `gorm:"column:html;type:text" json:"html"`
	PNG    []byte `gorm:"column:png" json:"png"`
}

func (PathMap) TableName() string {
	return "pathmap"
}
