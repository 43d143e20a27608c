package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/govcon-intel/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long:  "Prints the merged configuration (defaults, config.yaml, environment) as YAML. The SAM.gov API key is redacted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := marshalConfig(*cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// marshalConfig renders c as YAML with credentials masked.
func marshalConfig(c config.Config) ([]byte, error) {
	if c.SAM.APIKey != "" {
		c.SAM.APIKey = "REDACTED"
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, eris.Wrap(err, "config: marshal yaml")
	}
	return data, nil
}
