package sources

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func NewLabelsCommand() *cobra.Command {
	var counts bool

	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Prints the astrophysical class of every source, in file order",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, l, err := openDataset(cmd.Context(), "labels")
			if err != nil {
				return err
			}
			defer d.Close()
			defer l.Sync()

			labels, err := d.Labels()
			if err != nil {
				return err
			}

			if counts {
				m := make(map[string]int)
				for _, label := range labels {
					m[label]++
				}
				return yaml.NewEncoder(cmd.OutOrStdout()).Encode(m)
			}

			for _, label := range labels {
				fmt.Fprintln(cmd.OutOrStdout(), label)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&counts, "counts", false, "Print the number of sources per class instead")
	return cmd
}
