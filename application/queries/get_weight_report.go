package queries

import (
	"revshare/pkg/common"
	pkgerrors "revshare/pkg/errors"
	"revshare/pkg/utils"
)

// GetWeightReportQuery asks for the dynamic weight leaderboard. The
// page window bounds the returned rows; a zero limit returns them all.
type GetWeightReportQuery struct {
	Page common.PageParams `json:"page"`
}

// Validate validates the GetWeightReportQuery
func (q GetWeightReportQuery) Validate() error {
	if err := utils.ValidateStruct(q); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}
