package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// infoCmd lists the accepted filter syntax
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show information about available filter options",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprint(cmd.OutOrStdout(), infoText())
		return err
	},
}

func infoText() string {
	var sb strings.Builder
	line := func(s string) { sb.WriteString(s + "\n") }

	line("R Datasets Search - Filter Options")
	line(strings.Repeat("=", 40))

	line("\n📊 Data Type Filters:")
	line("  binary     - Datasets with binary/boolean columns")
	line("  character  - Datasets with character/string columns")
	line("  factor     - Datasets with factor/categorical columns")
	line("  logical    - Datasets with logical/boolean columns")
	line("  numeric    - Datasets with numeric columns")

	line("\n📏 Size Filters:")
	for _, col := range []struct{ name, unit string }{{"rows", "rows"}, {"cols", "columns"}} {
		line(fmt.Sprintf("  %s > N   - Datasets with more than N %s", col.name, col.unit))
		line(fmt.Sprintf("  %s < N   - Datasets with fewer than N %s", col.name, col.unit))
		line(fmt.Sprintf("  %s >= N  - Datasets with N or more %s", col.name, col.unit))
		line(fmt.Sprintf("  %s <= N  - Datasets with N or fewer %s", col.name, col.unit))
		line(fmt.Sprintf("  %s == N  - Datasets with exactly N %s", col.name, col.unit))
		line(fmt.Sprintf("  %s != N  - Datasets with not exactly N %s", col.name, col.unit))
	}

	line("\n💡 Notes:")
	line("  - All arguments are case-insensitive")
	line("  - Whitespace around operators is flexible")
	line("  - Multiple filters can be combined")
	line("  - Use quotes around expressions with spaces")

	line("\n🔍 Examples:")
	line("  rdata having binary")
	line(`  rdata having "rows > 100"`)
	line(`  rdata having binary "rows > 100" numeric`)
	line(`  rdata having "cols == 5" character`)

	return sb.String()
}
