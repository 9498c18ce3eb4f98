package queries

import (
	pkgerrors "revshare/pkg/errors"
	"revshare/pkg/utils"
)

// GetCitationStatsQuery asks for citation structure statistics. TopN
// bounds the most-cited and top-executor rankings; zero means the
// default of ten.
type GetCitationStatsQuery struct {
	TopN int `json:"top_n" validate:"gte=0"`
}

// Validate validates the GetCitationStatsQuery
func (q GetCitationStatsQuery) Validate() error {
	if err := utils.ValidateStruct(q); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}
