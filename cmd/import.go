package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"

	"github.com/helpdeskhq/waverly/internal/knowledge"
	"github.com/helpdeskhq/waverly/internal/progress"
)

// importEntry is one record of the import file.
type importEntry struct {
	Title    string `yaml:"title"`
	Content  string `yaml:"content"`
	Category string `yaml:"category"`
	Source   string `yaml:"source"`
	TenantID string `yaml:"tenant_id"`
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Bulk import knowledge entries from a YAML file",
	Long: `Reads a YAML file containing a list of knowledge entries (title,
content, optional category/source/tenant_id) and adds each one to the
knowledge base, indexing it for semantic search.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading import file: %w", err)
		}

		var entries []importEntry
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("parsing import file: %w", err)
		}
		if len(entries) == 0 {
			return fmt.Errorf("no entries found in %s", args[0])
		}

		st, err := buildStack(cfgFile)
		if err != nil {
			return err
		}
		defer st.close()

		ctx := context.Background()
		reporter := progress.NewReporter()
		reporter.Start(len(entries))

		imported, failed := 0, 0
		for i, e := range entries {
			reporter.Update(i+1, e.Title)
			if e.Title == "" {
				fmt.Fprintf(os.Stderr, "Skipping entry %d: missing title\n", i+1)
				failed++
				continue
			}
			tenant := e.TenantID
			if tenant == "" {
				tenant = st.cfg.CRM.LocationID
			}
			_, err := st.store.AddEntry(ctx, knowledge.Entry{
				Title:    e.Title,
				Content:  e.Content,
				Category: e.Category,
				Source:   e.Source,
				TenantID: tenant,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to import %q: %v\n", e.Title, err)
				failed++
				continue
			}
			imported++
		}
		reporter.Finish()

		fmt.Fprintf(os.Stderr, "Imported %d entries (%d failed), %d chunks indexed\n",
			imported, failed, st.store.ChunkCount())
		if failed > 0 {
			return fmt.Errorf("%d entries failed to import", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
