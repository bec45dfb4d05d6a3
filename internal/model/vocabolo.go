package model

import (
	"github.com/lib/pq"
)

// Vocabolo is one row of the vocaboli table. Nullable columns are pointers or
// nil slices so that NULL survives the round trip.
type Vocabolo struct {
	ID          int64          `gorm:"column:id;primaryKey" json:"-"`
	Parola      string         `gorm:"column:parola;type:varchar(255);uniqueIndex;not null" json:"-"`
	Definizione *string        `gorm:"column:definizione;type:text" json:"definizione,omitempty"`
	POS         *string        `gorm:"column:pos;type:varchar(50)" json:"pos,omitempty"`
	Espressione *string        `gorm:"column:espressione;type:text" json:"espressione,omitempty"`
	Sinonimi    pq.StringArray `gorm:"column:sinonimi;type:text[]" json:"sinonimi,omitempty"`
	Contrari    pq.StringArray `gorm:"column:contrari;type:text[]" json:"contrari,omitempty"`
	Note        *string        `gorm:"column:note;type:text" json:"note,omitempty"`
}

func (Vocabolo) TableName() string {
	return "vocaboli"
}

// Fields returns the non-null columns other than id and parola, keyed by
// column name.
func (v *Vocabolo) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if v.Definizione != nil {
		fields["definizione"] = *v.Definizione
	}
	if v.POS != nil {
		fields["pos"] = *v.POS
	}
	if v.Espressione != nil {
		fields["espressione"] = *v.Espressione
	}
	if v.Sinonimi != nil {
		fields["sinonimi"] = []string(v.Sinonimi)
	}
	if v.Contrari != nil {
		fields["contrari"] = []string(v.Contrari)
	}
	if v.Note != nil {
		fields["note"] = *v.Note
	}
	return fields
}
