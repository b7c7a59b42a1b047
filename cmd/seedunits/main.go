// cmd/seedunits/main.go: carga las unidades de medida base y sus conversiones.
// Uso: go run ./cmd/seedunits
// Es idempotente: una unidad existente se reutiliza por abreviatura.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"hygpos/internal/config"
	"hygpos/internal/infra"
	"hygpos/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var units = []model.UnitOfMeasure{
	{Name: "Gramo", Abbreviation: "g", IsBase: true},
	{Name: "Kilogramo", Abbreviation: "kg"},
	{Name: "Mililitro", Abbreviation: "ml", IsBase: true},
	{Name: "Litro", Abbreviation: "l"},
	{Name: "Unidad", Abbreviation: "u", IsBase: true},
	{Name: "Docena", Abbreviation: "doc"},
}

// 1 from = factor to
var conversions = []struct {
	from, to string
	factor   string
}{
	{"kg", "g", "1000"},
	{"l", "ml", "1000"},
	{"doc", "u", "12"},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}

	ctx := context.Background()
	if err := db.WithContext(ctx).Transaction(seed); err != nil {
		log.Fatal().Err(err).Msg("seed error")
	}
	fmt.Printf("✅ %d unidades y %d conversiones cargadas\n", len(units), len(conversions))
}

func seed(tx *gorm.DB) error {
	ids := make(map[string]model.UnitOfMeasure, len(units))
	for _, u := range units {
		if err := tx.Where(model.UnitOfMeasure{Abbreviation: u.Abbreviation}).
			Attrs(model.UnitOfMeasure{Name: u.Name, IsBase: u.IsBase}).
			FirstOrCreate(&u).Error; err != nil {
			return fmt.Errorf("unit %s: %w", u.Abbreviation, err)
		}
		ids[u.Abbreviation] = u
	}

	for _, c := range conversions {
		conv := model.UnitConversion{
			FromUnitID: ids[c.from].ID,
			ToUnitID:   ids[c.to].ID,
			Factor:     decimal.RequireFromString(c.factor),
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_unit_id"}, {Name: "to_unit_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"factor"}),
		}).Create(&conv).Error
		if err != nil {
			return fmt.Errorf("conversion %s→%s: %w", c.from, c.to, err)
		}
	}
	return nil
}
