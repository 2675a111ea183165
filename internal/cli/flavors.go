package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/idlcpp/internal/flavor"
)

// FlavorInfo describes one output flavor.
type FlavorInfo struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	StructPrefix string   `json:"struct_prefix"`
	Scaffold     []string `json:"scaffold"`
}

// NewFlavorsCommand creates the flavors command.
func NewFlavorsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "flavors",
		Short:         "List the available output flavors",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlavors(rootOpts.formatter(cmd))
		},
	}
}

func runFlavors(formatter *OutputFormatter) error {
	var infos []FlavorInfo
	for _, name := range flavor.Names() {
		f, err := flavor.Get(name)
		if err != nil {
			return err
		}
		info := FlavorInfo{Name: f.Name, Description: f.Description, StructPrefix: f.StructPrefix}
		for _, s := range f.ScaffoldFor("Module") {
			info.Scaffold = append(info.Scaffold, s.Path)
		}
		infos = append(infos, info)
	}

	if formatter.Format == "json" {
		return formatter.Success(infos)
	}

	rows := [][]string{{"Flavor", "Description", "Prefix", "Scaffold files"}}
	for _, info := range infos {
		prefix := info.StructPrefix
		if prefix == "" {
			prefix = "-"
		}
		rows = append(rows, []string{info.Name, info.Description, prefix, strconv.Itoa(len(info.Scaffold))})
	}
	if err := formatter.Table(rows); err != nil {
		return fmt.Errorf("rendering flavor table: %w", err)
	}
	return nil
}
