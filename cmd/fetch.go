package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"sheet-storefront/app"
	"sheet-storefront/config"
	"sheet-storefront/utils"
)

var fetchSheet string

// resolveSheetArg accepts either a full spreadsheet link or a bare id
func resolveSheetArg(sheet string) (string, error) {
	if sheet == "" {
		return "", fmt.Errorf("--sheet is required")
	}
	if utils.IsHTTPURL(sheet) {
		id := utils.ExtractSheetID(sheet)
		if id == "" {
			return "", fmt.Errorf("%q is not a Google spreadsheet link", sheet)
		}
		return id, nil
	}
	return sheet, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch data from a spreadsheet and print it as JSON",
}

var fetchCatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Fetch and print the product catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := resolveSheetArg(fetchSheet)
		if err != nil {
			return err
		}
		cfg := config.Load()
		store, catalogService, _, err := app.NewServices(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if _, err := catalogService.FetchProducts(cmd.Context(), sheetID); err != nil {
			return err
		}
		return printJSON(cmd, store.Catalog(sheetID))
	},
}

var fetchThemeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Fetch and print the theme configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := resolveSheetArg(fetchSheet)
		if err != nil {
			return err
		}
		cfg := config.Load()
		_, _, themeService, err := app.NewServices(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		theme, err := themeService.FetchTheme(cmd.Context(), sheetID)
		if err != nil {
			return err
		}
		return printJSON(cmd, theme)
	},
}

func init() {
	fetchCmd.PersistentFlags().StringVarP(&fetchSheet, "sheet", "s", "", "Spreadsheet link or id")
	fetchCmd.AddCommand(fetchCatalogCmd, fetchThemeCmd)
	rootCmd.AddCommand(fetchCmd)
}
