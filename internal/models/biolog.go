package models

import (
	"fmt"
	"time"
)

// Biolog is a static plate/well catalog entry.
type Biolog struct {
	PlateID       string  `gorm:"column:plate_id;primaryKey;size:16" json:"plateId"`
	WellID        string  `gorm:"column:well_id;primaryKey;size:8;index" json:"wellId"`
	Chemical      string  `gorm:"size:255;index" json:"chemical"`
	Category      string  `gorm:"size:255;index" json:"category"`
	MoA           string  `gorm:"column:moa;size:255" json:"moa"`
	CoID          *string `gorm:"column:co_id;size:64;index" json:"coId"`
	Concentration int     `gorm:"not null;default:0" json:"concentration"`
}

func (Biolog) TableName() string {
	return "biolog"
}

// WellKey identifies one replicate measurement of an organism in a well.
type WellKey struct {
	PlateID string `gorm:"column:plate_id;primaryKey;size:16" json:"plateId"`
	WellID  string `gorm:"column:well_id;primaryKey;size:8" json:"wellId"`
	OrgID   string `gorm:"column:org_id;primaryKey;size:255;index" json:"orgId"`
	Replica int    `gorm:"column:replica;primaryKey;autoIncrement:false" json:"replica"`
}

func (k WellKey) String() string {
	return fmt.Sprintf("%s_%s_%s_%d", k.PlateID, k.WellID, k.OrgID, k.Replica)
}

// CurveParams are the parameters derived from a growth curve. All of them
// stay nil until the fit/clustering step of the pipeline has run.
type CurveParams struct {
	Activity *int     `gorm:"column:activity;index" json:"activity"`
	Min      *float64 `gorm:"column:min" json:"min"`
	Max      *float64 `gorm:"column:max" json:"max"`
	Height   *float64 `gorm:"column:height" json:"height"`
	Plateau  *float64 `gorm:"column:plateau" json:"plateau"`
	Slope    *float64 `gorm:"column:slope" json:"slope"`
	Lag      *float64 `gorm:"column:lag" json:"lag"`
	Area     *float64 `gorm:"column:area" json:"area"`
	V        *float64 `gorm:"column:v" json:"v"`
	Y0       *float64 `gorm:"column:y0" json:"y0"`
	Model    *string  `gorm:"column:model;size:64" json:"model"`
}

// BiologExp is an active assay measurement.
type BiologExp struct {
	WellKey
	Zero bool `gorm:"column:zero;not null;default:false" json:"zero"`
	CurveParams
}

func (BiologExp) TableName() string {
	return "biolog_exp"
}

// BiologExpDet is the raw signal curve of a measurement.
type BiologExpDet struct {
	WellKey
	Times   Series `gorm:"column:times" json:"times"`
	Signals Series `gorm:"column:signals" json:"signals"`
}

func (BiologExpDet) TableName() string {
	return "biolog_exp_det"
}

// BiologPurgedExp mirrors BiologExp for measurements moved out of analysis.
type BiologPurgedExp struct {
	WellKey
	Zero bool `gorm:"column:zero;not null;default:false" json:"zero"`
	CurveParams
	PurgeID  string    `gorm:"column:purge_id;size:36;index" json:"purgeId"`
	PurgedAt time.Time `gorm:"column:purged_at" json:"purgedAt"`
}

func (BiologPurgedExp) TableName() string {
	return "biolog_purged_exp"
}

// BiologPurgedExpDet mirrors BiologExpDet for purged measurements.
type BiologPurgedExpDet struct {
	WellKey
	Times    Series    `gorm:"column:times" json:"times"`
	Signals  Series    `gorm:"column:signals" json:"signals"`
	PurgedAt time.Time `gorm:"column:purged_at" json:"purgedAt"`
}

func (BiologPurgedExpDet) TableName() string {
	return "biolog_purged_exp_det"
}

// Well is one entry of an assay batch: a measurement plus its raw curve.
type Well struct {
	WellKey
	Zero bool
	CurveParams
	Times   Series
	Signals Series
}

// Measurement returns the measurement row for the well.
func (w Well) Measurement() BiologExp {
	return BiologExp{WellKey: w.WellKey, Zero: w.Zero, CurveParams: w.CurveParams}
}

// Detail returns the raw signal row for the well.
func (w Well) Detail() BiologExpDet {
	return BiologExpDet{WellKey: w.WellKey, Times: w.Times, Signals: w.Signals}
}
