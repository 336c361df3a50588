package commands

import (
	"context"
	"fmt"

	"ProcReports/pkg/collecting"
	"ProcReports/pkg/probing"
)

// readReport returns the text of the file named by args, or of the kernel
// report at path acquired the way Cfg selects.
func readReport(ctx context.Context, args []string, path string) (string, error) {
	if len(args) > 0 {
		return (&probing.FileSource{}).Read(ctx, args[0])
	}
	return collecting.NewSource(Cfg).Read(ctx, path)
}

func prepareConfig() error {
	Cfg.ApplyDefaults()
	if err := Cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
