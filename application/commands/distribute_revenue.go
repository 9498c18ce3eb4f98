package commands

import (
	"revshare/domain/core/valueobjects"
	pkgerrors "revshare/pkg/errors"
)

// DistributeRevenueCommand runs one revenue distribution. TriggerTask
// may be a record key or a title; empty means the first record in the
// dataset. OutputPath, when set, stores the report as JSON in addition
// to rendering it; Debug writes the intermediate stage snapshots.
type DistributeRevenueCommand struct {
	TriggerTask string             `json:"trigger_task"`
	Amount      valueobjects.Money `json:"amount"`
	OutputPath  string             `json:"output_path,omitempty"`
	Debug       bool               `json:"debug"`
}

// Validate validates the DistributeRevenueCommand
func (cmd DistributeRevenueCommand) Validate() error {
	if cmd.Amount.IsNegative() {
		return pkgerrors.NewNegativeAmountError(cmd.Amount.String())
	}
	return nil
}
