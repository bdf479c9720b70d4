package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-catalogform/pkg/openapi"
	"github.com/goliatone/go-catalogform/pkg/plugin"
	"github.com/goliatone/go-catalogform/pkg/validation"
	"github.com/goliatone/go-catalogform/pkg/widgets"
)

var formCmd = &cobra.Command{
	Use:   "form [document]",
	Short: "Compose the edit form for a catalog document",
	Long: `Compose the edit form for a catalog document and print the pass id, the
seeded form data, the composed schema and the fields that trigger a schema
recompute. Without a document a new collection form is composed. Use - to
read the document from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runForm,
}

var schemaCmd = &cobra.Command{
	Use:   "schema [document]",
	Short: "Print the composed schema",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSchema,
}

var validateCmd = &cobra.Command{
	Use:   "validate [document]",
	Short: "Validate form data against the composed schema",
	Long: `Validate form data against the composed schema. The form data defaults to
the data seeded from the document; use --form-data to validate an edited
form instead. Exits non-zero when validation fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var outCmd = &cobra.Command{
	Use:   "out [document]",
	Short: "Convert form data back into a catalog document",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runOut,
}

var renderCmd = &cobra.Command{
	Use:   "render [document]",
	Short: "Render the composed form as HTML",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRender,
}

func init() {
	for _, cmd := range []*cobra.Command{formCmd, schemaCmd, validateCmd, outCmd, renderCmd} {
		cmd.Flags().String("level", "collection", "plugin list to compose: collection or item")
		rootCmd.AddCommand(cmd)
	}
	validateCmd.Flags().String("form-data", "", "form data document (JSON or YAML)")
	outCmd.Flags().String("form-data", "", "form data document (JSON or YAML)")
	schemaCmd.Flags().Bool("openapi", false, "print an OpenAPI 3 document instead of the raw schema")
	renderCmd.Flags().StringP("output", "o", "", "output file (stdout if empty)")
}

func runForm(cmd *cobra.Command, args []string) error {
	state, _, err := composeFor(cmd, args)
	if err != nil {
		return err
	}
	root, err := state.Schema(state.FormData)
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), map[string]any{
		"passId":   state.PassID,
		"plugins":  pluginNames(state.Plugins),
		"formData": state.FormData,
		"schema":   root,
		"watch":    state.WatchFields(),
	})
}

func runSchema(cmd *cobra.Command, args []string) error {
	state, _, err := composeFor(cmd, args)
	if err != nil {
		return err
	}
	root, err := state.Schema(state.FormData)
	if err != nil {
		return err
	}

	if asOpenAPI, _ := cmd.Flags().GetBool("openapi"); asOpenAPI {
		doc, err := openapi.Document(cmd.Context(), "Catalog form", version, root)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), doc)
	}
	return writeJSON(cmd.OutOrStdout(), root)
}

func runValidate(cmd *cobra.Command, args []string) error {
	state, _, err := composeFor(cmd, args)
	if err != nil {
		return err
	}
	formData, err := formDataFlag(cmd, state.FormData)
	if err != nil {
		return err
	}

	result, err := validation.Validate(state.Plugins, formData)
	if err != nil {
		return err
	}
	if result.Valid() {
		return writeJSON(cmd.OutOrStdout(), map[string]any{"valid": true, "data": result.Data})
	}

	issues := result.Errors.Issues()
	if err := writeJSON(cmd.OutOrStdout(), map[string]any{"valid": false, "issues": issues}); err != nil {
		return err
	}
	return fmt.Errorf("validation failed: %d issue(s)", len(issues))
}

func runOut(cmd *cobra.Command, args []string) error {
	state, _, err := composeFor(cmd, args)
	if err != nil {
		return err
	}
	formData, err := formDataFlag(cmd, state.FormData)
	if err != nil {
		return err
	}
	out, err := state.ToOutData(formData)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), out)
}

func runRender(cmd *cobra.Command, args []string) error {
	state, cfg, err := composeFor(cmd, args)
	if err != nil {
		return err
	}
	root, err := state.Schema(state.FormData)
	if err != nil {
		return err
	}

	engine := widgets.NewEngine(cfg.Widgets, widgets.WithLogger(logger))
	result := engine.RenderTree(cmd.Context(), root, "")
	for _, failure := range result.Failures {
		logger.Warn().Err(failure).Msg("widget failed")
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		_, err := cmd.OutOrStdout().Write(result.Output)
		return err
	}
	if err := os.WriteFile(output, result.Output, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	logger.Info().Str("path", output).Int("failures", len(result.Failures)).Msg("form written")
	return nil
}

func formDataFlag(cmd *cobra.Command, fallback map[string]any) (map[string]any, error) {
	path, _ := cmd.Flags().GetString("form-data")
	if path == "" {
		return fallback, nil
	}
	formData, err := loadFormData(cmd.Context(), cmd, path)
	if err != nil {
		return nil, err
	}
	if formData == nil {
		return map[string]any{}, nil
	}
	return formData, nil
}

func pluginNames(plugins []plugin.Plugin) []string {
	names := make([]string, 0, len(plugins))
	for _, p := range plugins {
		names = append(names, p.Name())
	}
	return names
}
