package commands

// GenerateSeedCommand renders the dataset into an idempotent SQL seed
// script. An empty or "-" output path writes the script to standard
// output.
type GenerateSeedCommand struct {
	OutputPath string `json:"output_path,omitempty"`
}

// Validate validates the GenerateSeedCommand
func (cmd GenerateSeedCommand) Validate() error {
	return nil
}
