package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// OverwriteFiles controls whether existing output files should be overwritten
	OverwriteFiles bool
	// SteamAPIKey is the credential for Steam Web API calls
	SteamAPIKey string
	// CatalogFile is the path of the persisted name-to-appid lookup table
	CatalogFile string
	// JSONOutputDir is the base directory for enrichment output files
	JSONOutputDir string
)

// InitConfig initializes the global configuration
func InitConfig() {
	// Set default values
	viper.SetDefault("JSONOutputDir", "./json/")
	viper.SetDefault("OverwriteFiles", false)
	viper.SetDefault("catalog.file", "./data/app_id_list.json")

	// Get values from viper
	OverwriteFiles = viper.GetBool("OverwriteFiles")
	SteamAPIKey = viper.GetString("steam.apikey")
	CatalogFile = viper.GetString("catalog.file")
	JSONOutputDir = viper.GetString("JSONOutputDir")
}

// SetOverwriteFiles sets the OverwriteFiles flag
func SetOverwriteFiles(overwrite bool) {
	OverwriteFiles = overwrite
}
