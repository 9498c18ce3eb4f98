package commands

import (
	"revshare/domain/core/valueobjects"
	pkgerrors "revshare/pkg/errors"
)

// DistributeAPIRevenueCommand prices every task flagged as a billable
// API at RevenuePerCall per recorded call and runs one distribution per
// task.
type DistributeAPIRevenueCommand struct {
	RevenuePerCall valueobjects.Money `json:"revenue_per_call"`
	OutputPath     string             `json:"output_path,omitempty"`
	Debug          bool               `json:"debug"`
}

// Validate validates the DistributeAPIRevenueCommand
func (cmd DistributeAPIRevenueCommand) Validate() error {
	if cmd.RevenuePerCall.IsNegative() {
		return pkgerrors.NewNegativeAmountError(cmd.RevenuePerCall.String())
	}
	return nil
}
