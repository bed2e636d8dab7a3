package cmd

import (
	"encoding/json"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/marquee-cli/marquee/source"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.SetOut(os.Stdout)
}

// manifestSchema describes the manifest format accepted by play and inspect.
func manifestSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{ExpandedStruct: true}
	schema := reflector.Reflect(&source.Manifest{})
	schema.Title = "marquee manifest"
	return schema
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of source manifests",
	Run: func(cmd *cobra.Command, args []string) {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(manifestSchema()))
	},
}
