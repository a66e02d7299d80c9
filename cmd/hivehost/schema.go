package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hiveml/hivehost/application/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [name]",
	Short: "Print JSON schemas for the hive service wire contract",
	Args:  cobra.MaximumNArgs(1),
	Run:   runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) {
	schemas, err := schema.WireSchemas()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(args) == 1 {
		data, ok := schemas[args[0]]
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown schema %q\n", args[0])
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("--- %s\n%s\n", name, schemas[name])
	}
}
