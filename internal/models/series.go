// series.go
//
// Relational store for comparative genomics and phenomics pipelines
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of ductapedb.
// ductapedb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// ductapedb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with ductapedb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Series is an ordered sequence of samples stored as a JSON array.
type Series []float64

func (s Series) Value() (driver.Value, error) {
	if s == nil {
		return datatypes.JSON("[]").Value()
	}
	b, err := json.Marshal([]float64(s))
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b).Value()
}

func (s *Series) Scan(value interface{}) error {
	var raw datatypes.JSON
	if err := raw.Scan(value); err != nil {
		return fmt.Errorf("series: %w", err)
	}
	if len(raw) == 0 {
		*s = Series{}
		return nil
	}
	var out []float64
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("series: %w", err)
	}
	if out == nil {
		out = []float64{}
	}
	*s = Series(out)
	return nil
}

func (Series) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}
