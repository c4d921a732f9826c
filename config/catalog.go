package config

import (
	"log"

	"cutesalon/models"

	"github.com/spf13/viper"
)

// Catalog is the treatment catalog, loaded once at process start and
// immutable afterwards.
var Catalog []models.TreatmentSection

// LoadCatalog reads catalog.yaml into the in-memory catalog.
func LoadCatalog() {
	v := viper.New()
	v.SetConfigName("catalog")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("Failed to read treatment catalog: %v", err)
	}

	var sections []models.TreatmentSection
	if err := v.UnmarshalKey("sections", &sections); err != nil {
		log.Fatalf("Failed to parse treatment catalog: %v", err)
	}
	if len(sections) == 0 {
		log.Fatalf("Treatment catalog is empty")
	}
	Catalog = sections
}
